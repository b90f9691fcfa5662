package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"assetgrip/internal/domain"
)

// MemoryCatalog is an in-process backend holding a catalog in memory. It
// serves every command the Client issues and is used for demo mode and tests.
type MemoryCatalog struct {
	mu            sync.Mutex
	appearances   map[string][]domain.Appearance
	sounds        map[string][]domain.AssetSummary
	subcategories []domain.Subcategory
	clipboard     map[string]any
	failures      map[string]error
	calls         map[string]int
	saves         int
}

// NewMemoryCatalog creates an empty catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		appearances: make(map[string][]domain.Appearance),
		sounds:      make(map[string][]domain.AssetSummary),
		failures:    make(map[string]error),
		calls:       make(map[string]int),
	}
}

var demoWords = []string{"ancient", "blue", "crystal", "dark", "elven", "frozen", "golden", "holy", "iron", "jade"}

var demoObjectKinds = []domain.Subcategory{
	{Value: "Armors", DisplayName: "Armors"},
	{Value: "Containers", DisplayName: "Containers"},
	{Value: "Food", DisplayName: "Food"},
	{Value: "Weapons", DisplayName: "Weapons"},
}

// NewDemoCatalog creates a catalog seeded with generated entries for every
// category so the browser can run without a native backend.
func NewDemoCatalog() *MemoryCatalog {
	m := NewMemoryCatalog()
	m.SetSubcategories(demoObjectKinds...)

	counts := map[string]int{
		domain.CategoryObjects:  125,
		domain.CategoryOutfits:  48,
		domain.CategoryEffects:  30,
		domain.CategoryMissiles: 22,
	}
	for _, cat := range domain.AppearanceCategories {
		singular := strings.TrimSuffix(cat, "s")
		apps := make([]domain.Appearance, 0, counts[cat])
		for i := 0; i < counts[cat]; i++ {
			id := 100 + i
			app := domain.Appearance{
				ID:          id,
				Category:    cat,
				Name:        fmt.Sprintf("%s %s %d", demoWords[i%len(demoWords)], strings.ToLower(singular), id),
				SpriteCount: 1 + i%4,
				Flags: map[string]any{
					"unpass":   i%2 == 0,
					"takeable": i%3 == 0,
				},
			}
			if cat == domain.CategoryObjects {
				app.Subcategory = demoObjectKinds[i%len(demoObjectKinds)].Value
			}
			apps = append(apps, app)
		}
		m.AddAppearances(cat, apps...)
	}

	soundTypes := []string{"Spell", "Weapon", "Monster"}
	numeric := make([]domain.AssetSummary, 0, 60)
	for i := 0; i < 60; i++ {
		kind := soundTypes[i%len(soundTypes)]
		numeric = append(numeric, domain.AssetSummary{
			ID:   1 + i,
			Name: fmt.Sprintf("%s sound %d", strings.ToLower(kind), 1+i),
			Kind: kind,
		})
	}
	m.AddSounds(domain.SubcategoryAll, numeric...)
	m.AddSounds(domain.SubcategoryAmbienceStreams, demoSounds("ambience stream", 12)...)
	m.AddSounds(domain.SubcategoryAmbienceObjectStreams, demoSounds("object stream", 8)...)
	m.AddSounds(domain.SubcategoryMusicTemplates, demoSounds("music template", 5)...)
	return m
}

func demoSounds(label string, n int) []domain.AssetSummary {
	out := make([]domain.AssetSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.AssetSummary{ID: 1 + i, Name: fmt.Sprintf("%s %d", label, 1+i)})
	}
	return out
}

// AddAppearances inserts appearances into category, keeping ids sorted
func (m *MemoryCatalog) AddAppearances(category string, apps ...domain.Appearance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, app := range apps {
		app.Category = category
		m.appearances[category] = append(m.appearances[category], app)
	}
	sortAppearances(m.appearances[category])
}

// AddSounds appends entries to a sound listing. SubcategoryAll holds the
// numeric sound effects; the stream and template subcategories hold their own.
func (m *MemoryCatalog) AddSounds(subcategory string, items ...domain.AssetSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sounds[subcategory] = append(m.sounds[subcategory], items...)
}

// SetSubcategories replaces the object subcategory list
func (m *MemoryCatalog) SetSubcategories(subs ...domain.Subcategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subcategories = append([]domain.Subcategory(nil), subs...)
}

// FailOn makes every call to command fail with err. A nil err clears it.
func (m *MemoryCatalog) FailOn(command string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, command)
		return
	}
	m.failures[command] = err
}

// Calls returns how many times command was invoked
func (m *MemoryCatalog) Calls(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[command]
}

// Saves returns how many times the appearances file was saved
func (m *MemoryCatalog) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Has reports whether ref exists in the catalog
func (m *MemoryCatalog) Has(ref domain.AssetRef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(ref.Category, ref.ID) >= 0
}

// Invoke dispatches command against the in-memory catalog
func (m *MemoryCatalog) Invoke(ctx context.Context, command string, args map[string]any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.calls[command]++
	if err, ok := m.failures[command]; ok {
		m.mu.Unlock()
		return &Error{Command: command, Message: err.Error()}
	}
	result, err := m.dispatchLocked(command, args)
	m.mu.Unlock()

	if err != nil {
		if err == ErrUnknownCommand {
			return fmt.Errorf("%s: %w", command, err)
		}
		return &Error{Command: command, Message: err.Error()}
	}
	return decodeInto(command, result, out)
}

func (m *MemoryCatalog) dispatchLocked(command string, args map[string]any) (any, error) {
	switch command {
	case CmdListAppearancesByCategory:
		category := stringArg(args, "category")
		if !domain.IsAppearanceCategory(category) {
			return nil, fmt.Errorf("unknown category %q", category)
		}
		items := m.filterLocked(category, stringArg(args, "search"), stringArg(args, "subcategory"))
		return paginate(items, intArg(args, "page"), intArg(args, "pageSize")), nil

	case CmdGetAppearanceCount:
		category := stringArg(args, "category")
		if !domain.IsAppearanceCategory(category) {
			return nil, fmt.Errorf("unknown category %q", category)
		}
		return len(m.filterLocked(category, stringArg(args, "search"), stringArg(args, "subcategory"))), nil

	case CmdGetCompleteAppearance:
		category, id := stringArg(args, "category"), intArg(args, "id")
		idx := m.findLocked(category, id)
		if idx < 0 {
			return nil, notFound(category, id)
		}
		return m.appearances[category][idx], nil

	case CmdGetItemSubcategories:
		pairs := make([][2]string, 0, len(m.subcategories))
		for _, s := range m.subcategories {
			pairs = append(pairs, [2]string{s.Value, s.DisplayName})
		}
		return pairs, nil

	case CmdDuplicateAppearance:
		return m.duplicateLocked(stringArg(args, "category"), intArg(args, "sourceId"), args["targetId"])

	case CmdCopyAppearanceFlags:
		category, id := stringArg(args, "category"), intArg(args, "id")
		idx := m.findLocked(category, id)
		if idx < 0 {
			return nil, notFound(category, id)
		}
		m.clipboard = copyFlags(m.appearances[category][idx].Flags)
		return nil, nil

	case CmdPasteAppearanceFlags:
		category, id := stringArg(args, "category"), intArg(args, "id")
		if m.clipboard == nil {
			return nil, fmt.Errorf("no flags copied")
		}
		idx := m.findLocked(category, id)
		if idx < 0 {
			return nil, notFound(category, id)
		}
		m.appearances[category][idx].Flags = copyFlags(m.clipboard)
		return nil, nil

	case CmdDeleteAppearance:
		category, id := stringArg(args, "category"), intArg(args, "id")
		idx := m.findLocked(category, id)
		if idx < 0 {
			return nil, notFound(category, id)
		}
		apps := m.appearances[category]
		m.appearances[category] = append(apps[:idx:idx], apps[idx+1:]...)
		return nil, nil

	case CmdSaveAppearancesFile:
		m.saves++
		return nil, nil

	case CmdExportAppearanceToJSON:
		category, id := stringArg(args, "category"), intArg(args, "id")
		idx := m.findLocked(category, id)
		if idx < 0 {
			return nil, notFound(category, id)
		}
		path := stringArg(args, "path")
		if path == "" {
			return nil, fmt.Errorf("export path is required")
		}
		data, err := json.MarshalIndent(m.appearances[category][idx], "", "  ")
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		return nil, nil

	case CmdListAllSounds:
		return append([]domain.AssetSummary{}, m.sounds[domain.SubcategoryAll]...), nil

	case CmdListNumericSoundEffects:
		soundType := stringArg(args, "soundType")
		items := make([]domain.AssetSummary, 0, len(m.sounds[domain.SubcategoryAll]))
		for _, s := range m.sounds[domain.SubcategoryAll] {
			if soundType == "" || s.Kind == soundType {
				items = append(items, s)
			}
		}
		return paginate(items, intArg(args, "page"), intArg(args, "pageSize")), nil

	case CmdGetNumericSoundEffectByID:
		id := intArg(args, "id")
		for _, s := range m.sounds[domain.SubcategoryAll] {
			if s.ID == id {
				return s, nil
			}
		}
		return nil, notFound(domain.CategorySounds, id)

	case CmdListAmbienceStreams:
		return paginate(m.sounds[domain.SubcategoryAmbienceStreams], intArg(args, "page"), intArg(args, "pageSize")), nil

	case CmdListAmbienceObjectStreams:
		return paginate(m.sounds[domain.SubcategoryAmbienceObjectStreams], intArg(args, "page"), intArg(args, "pageSize")), nil

	case CmdListMusicTemplates:
		return paginate(m.sounds[domain.SubcategoryMusicTemplates], intArg(args, "page"), intArg(args, "pageSize")), nil
	}
	return nil, ErrUnknownCommand
}

func (m *MemoryCatalog) duplicateLocked(category string, sourceID int, rawTarget any) (any, error) {
	idx := m.findLocked(category, sourceID)
	if idx < 0 {
		return nil, notFound(category, sourceID)
	}
	apps := m.appearances[category]

	candidate := 0
	if rawTarget != nil {
		candidate = toInt(rawTarget)
	} else {
		for _, app := range apps {
			if app.ID >= candidate {
				candidate = app.ID + 1
			}
		}
	}
	for m.findLocked(category, candidate) >= 0 {
		candidate++
	}

	dup := apps[idx]
	dup.ID = candidate
	dup.Flags = copyFlags(dup.Flags)
	m.appearances[category] = append(apps, dup)
	sortAppearances(m.appearances[category])
	return dup, nil
}

func (m *MemoryCatalog) findLocked(category string, id int) int {
	apps := m.appearances[category]
	i := sort.Search(len(apps), func(i int) bool { return apps[i].ID >= id })
	if i < len(apps) && apps[i].ID == id {
		return i
	}
	return -1
}

func (m *MemoryCatalog) filterLocked(category, search, subcategory string) []domain.AssetSummary {
	search = strings.ToLower(strings.TrimSpace(search))
	if subcategory == domain.SubcategoryAll || category != domain.CategoryObjects {
		subcategory = ""
	}

	var items []domain.AssetSummary
	for _, app := range m.appearances[category] {
		if subcategory != "" && app.Subcategory != subcategory {
			continue
		}
		if search != "" && !matchesSearch(app, search) {
			continue
		}
		items = append(items, domain.AssetSummary{
			ID:          app.ID,
			Name:        app.Name,
			Description: app.Description,
			Kind:        app.Subcategory,
		})
	}
	return items
}

func matchesSearch(app domain.Appearance, term string) bool {
	return strings.Contains(strings.ToLower(app.Name), term) ||
		strings.Contains(strings.ToLower(app.Description), term) ||
		strings.Contains(strconv.Itoa(app.ID), term)
}

func paginate(items []domain.AssetSummary, page, size int) domain.Page {
	if size <= 0 {
		size = len(items)
	}
	start := page * size
	if page < 0 || start >= len(items) {
		return domain.Page{Total: len(items), Items: []domain.AssetSummary{}}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return domain.Page{Total: len(items), Items: append([]domain.AssetSummary{}, items[start:end]...)}
}

func sortAppearances(apps []domain.Appearance) {
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
}

func copyFlags(flags map[string]any) map[string]any {
	if flags == nil {
		return nil
	}
	out := make(map[string]any, len(flags))
	for k, v := range flags {
		out[k] = v
	}
	return out
}

func notFound(category string, id int) error {
	return fmt.Errorf("appearance %d not found in %s", id, category)
}

// decodeInto round-trips result through JSON so callers see the same shapes
// the HTTP bridge produces.
func decodeInto(command string, result, out any) error {
	if out == nil || result == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%s: encode result: %w", command, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", command, err)
	}
	return nil
}

func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	return toInt(args[key])
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case *int:
		if n != nil {
			return *n
		}
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
