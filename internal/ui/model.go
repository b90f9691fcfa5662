package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"assetgrip/internal/backend"
	"assetgrip/internal/config"
	"assetgrip/internal/domain"
	"assetgrip/internal/eventbus"
	"assetgrip/internal/history"
	"assetgrip/internal/logger"
	"assetgrip/internal/prefs"
	"assetgrip/internal/ui/commands"
	"assetgrip/internal/ui/input"
	inputtypes "assetgrip/internal/ui/input/types"
	"assetgrip/internal/ui/services/browse"
	"assetgrip/internal/ui/services/detail"
	"assetgrip/internal/ui/services/events"
	"assetgrip/internal/ui/services/navigation"
	"assetgrip/internal/ui/services/selection"
	"assetgrip/internal/ui/views"
)

// statusTTL is how long a transient status message stays visible
const statusTTL = 4 * time.Second

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	config  *config.Config
	prefs   *prefs.Store
	catalog *backend.Client

	// Services
	uiBus     *events.Bus
	history   *history.Stack
	selection *selection.Service
	browse    *browse.Service
	detail    *detail.Navigator
	executor  *commands.Executor
	nav       *navigation.Service

	// Presentation
	renderer     *views.Renderer
	inputHandler *input.Handler
	keys         keyMap
	help         help.Model
	width        int
	height       int
	menuCursor   int
	counts       map[string]int
	subcats      []domain.Subcategory
	showDetail   bool
	loading      int
	status       string
	statusKind   string
	statusSeq    int
	inPagerMode  bool

	// Cards whose selection styling changed since the last render. Selection
	// events can arrive from command goroutines, hence the lock.
	dirtyMu     sync.Mutex
	dirty       []domain.AssetRef
	lastPrimary *domain.AssetRef

	program *tea.Program
	pager   *Pager
}

// NewModel creates the UI model and the services behind it
func NewModel(bus eventbus.EventBus, cfg *config.Config, catalog *backend.Client, store *prefs.Store) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := &Model{
		bus:          bus,
		config:       cfg,
		prefs:        store,
		catalog:      catalog,
		uiBus:        events.NewBus(),
		history:      history.NewStack(cfg.Browse.HistoryLimit),
		inputHandler: input.New(),
		keys:         newKeyMap(),
		help:         help.New(),
		counts:       make(map[string]int),
	}

	theme := prefs.DefaultTheme
	if store != nil {
		theme = store.Theme()
	}
	m.renderer = views.NewRenderer(theme)

	m.selection = selection.NewService(m.uiBus, m.history)
	m.browse = browse.NewService(catalog, bus, m.selection, m.history, cfg.Browse.PageSize)
	m.detail = detail.NewNavigator(m.browse, catalog, bus)
	m.executor = commands.NewExecutor(catalog, m.selection, bus)
	m.nav = navigation.NewService(m.uiBus)

	m.uiBus.Subscribe(events.NameOf(selection.SelectionChangedEvent{}), m.onSelectionChanged)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
}

// Init loads the category counts and reopens the last browsed category
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCounts()}
	if m.prefs != nil {
		if last, ok := m.prefs.Get(prefs.KeyLastCategory); ok && domain.IsKnownCategory(last) {
			cmds = append(cmds, m.openCategory(last))
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.nav.SetGeometry(views.GridColumns(msg.Width), views.GridRows(msg.Height))
		return m, nil

	case tea.KeyMsg:
		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		return m, tea.Batch(cmds...)
	}

	cmd := m.inputHandler.Update(msg)
	model, msgCmd := m.handleNonKeyboardMsg(msg)
	return model, tea.Batch(cmd, msgCmd)
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	m.flushDirtyCards()
	return m.renderer.Render(m.viewState())
}

func (m *Model) viewState() views.ViewState {
	st := m.browse.State()
	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Counts:        m.counts,
		MenuCursor:    m.menuCursor,
		Loading:       m.loading > 0,
		StatusMessage: m.status,
		StatusKind:    m.statusKind,
		SelectedCount: m.selection.Count(),
		HelpView:      m.help.View(m.keys),
	}
	if desc, ok := m.history.PeekUndoDescription(); ok {
		vs.UndoLabel = desc
	}
	if desc, ok := m.history.PeekRedoDescription(); ok {
		vs.RedoLabel = desc
	}

	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeDeleteConfirm:
		vs.ConfirmCount = m.inputHandler.PendingDeleteCount()
	case inputtypes.ModeSearch, inputtypes.ModeExport, inputtypes.ModePageSize:
		vs.InputPrompt = m.inputHandler.Prompt()
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.TextInput = ti.View()
		}
	}

	if !m.browse.Active() {
		return vs
	}

	vs.Category = st.Category
	vs.Subcategory = st.Subcategory
	for _, sub := range m.subcats {
		vs.Subcategories = append(vs.Subcategories, sub.DisplayName)
		if sub.Value == st.Subcategory {
			vs.Subcategory = sub.DisplayName
		}
	}
	vs.Page = st.Page
	vs.TotalPages = st.TotalPages()
	vs.TotalItems = st.TotalItems
	vs.PageSize = st.PageSize
	vs.SearchTerm = st.SearchTerm
	vs.Items = m.browse.Items()
	vs.Refs = m.browse.Rendered()
	nav := m.nav.State()
	vs.Cursor = nav.Cursor
	vs.RowOffset = nav.RowOffset

	snap := m.selection.Snapshot()
	vs.Selected = make(map[domain.AssetRef]bool, len(snap.Selected))
	for _, ref := range snap.Selected {
		vs.Selected[ref] = true
	}
	vs.Primary = snap.Primary

	if m.showDetail {
		if ref, ok := m.detail.Current(); ok {
			rec, _ := m.detail.Record()
			buttons := m.detail.Buttons()
			vs.Detail = &views.DetailView{
				Ref:        ref,
				Record:     rec,
				HasPrev:    buttons.HasPrev,
				HasNext:    buttons.HasNext,
				Navigating: m.detail.IsNavigating(),
			}
		}
	}
	return vs
}

// inputContext snapshots what the input modes need to decide on a key
func (m *Model) inputContext() *input.ModelContext {
	ctx := &input.ModelContext{
		Selected: m.selection.Count(),
		Open:     m.browse.Active(),
		Detail:   m.showDetail,
		ExportTo: m.exportDir(),
	}
	if !ctx.Open {
		ctx.Index = m.menuCursor
		ctx.Items = len(domain.Categories)
		ctx.Size = m.config.Browse.PageSize
		return ctx
	}
	st := m.browse.State()
	ctx.Index = m.nav.Cursor()
	ctx.Items = len(m.browse.Items())
	ctx.Search = st.SearchTerm
	ctx.Size = st.PageSize
	return ctx
}

func (m *Model) exportDir() string {
	if m.prefs != nil {
		if dir, ok := m.prefs.Get(prefs.KeyLastExport); ok {
			return dir
		}
	}
	return m.config.Browse.ExportDir
}

// onSelectionChanged queues the cards whose styling the change touched
func (m *Model) onSelectionChanged(e interface{}) {
	ev, ok := e.(selection.SelectionChangedEvent)
	if !ok {
		return
	}

	m.dirtyMu.Lock()
	defer m.dirtyMu.Unlock()
	m.dirty = append(m.dirty, ev.Diff.Added...)
	m.dirty = append(m.dirty, ev.Diff.Removed...)
	if ev.Diff.PrimaryChanged {
		if m.lastPrimary != nil {
			m.dirty = append(m.dirty, *m.lastPrimary)
		}
		if ev.Primary != nil {
			m.dirty = append(m.dirty, *ev.Primary)
		}
	}
	m.lastPrimary = ev.Primary
}

func (m *Model) flushDirtyCards() {
	m.dirtyMu.Lock()
	dirty := m.dirty
	m.dirty = nil
	m.dirtyMu.Unlock()

	m.renderer.Cards().Invalidate(dirty...)
}

func (m *Model) currentRef() (domain.AssetRef, bool) {
	refs := m.browse.Rendered()
	cursor := m.nav.Cursor()
	if cursor >= len(refs) {
		return domain.AssetRef{}, false
	}
	return refs[cursor], true
}

// focus moves the grid cursor onto ref when it is on the current page
func (m *Model) focus(ref domain.AssetRef) {
	if idx := m.browse.IndexOf(ref); idx >= 0 {
		m.nav.MoveToIndex(idx)
	}
}

// setStatus shows message and schedules it to be cleared
func (m *Model) setStatus(kind, message string) tea.Cmd {
	m.statusSeq++
	m.status = message
	m.statusKind = kind
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// browseCmd runs a browse operation off the update loop
func (m *Model) browseCmd(op string, fn func(ctx context.Context) (bool, error)) tea.Cmd {
	m.loading++
	return func() tea.Msg {
		changed, err := fn(context.Background())
		return catalogMsg{op: op, changed: changed, err: err}
	}
}

func (m *Model) openCategory(category string) tea.Cmd {
	m.showDetail = false
	m.detail.Close()
	open := m.browseCmd("open", func(ctx context.Context) (bool, error) {
		return true, m.browse.OpenCategory(ctx, category)
	})
	subcats := func() tea.Msg {
		items, err := m.browse.LoadSubcategories(context.Background(), category)
		return subcategoriesMsg{category: category, items: items, err: err}
	}
	return tea.Batch(open, subcats)
}

func (m *Model) loadCounts() tea.Cmd {
	return func() tea.Msg {
		counts, err := m.browse.LoadCategoryCounts(context.Background())
		return countsMsg{counts: counts, err: err}
	}
}

func (m *Model) showPager(what string, content func() (string, error)) tea.Cmd {
	if m.program == nil {
		return m.setStatus(views.StatusError, "Pager unavailable")
	}
	return func() tea.Msg {
		text, err := content()
		if err != nil {
			return pagerMsg{what: what, err: err}
		}
		m.program.Send(pauseRenderingMsg{})
		err = m.pager.Show(text)
		m.program.Send(resumeRenderingMsg{})
		return pagerMsg{what: what, err: err}
	}
}

// recordFor returns the record shown by the raw record pager for ref
func (m *Model) recordFor(ref domain.AssetRef) func() (string, error) {
	if cur, ok := m.detail.Current(); ok && m.showDetail && cur == ref {
		if rec, ok := m.detail.Record(); ok {
			return func() (string, error) { return RecordContent(rec) }
		}
	}
	if domain.IsAppearanceCategory(ref.Category) {
		return func() (string, error) {
			rec, err := m.catalog.GetCompleteAppearance(context.Background(), ref)
			if err != nil {
				return "", err
			}
			return RecordContent(rec)
		}
	}
	item, _ := m.browse.Item(ref)
	return func() (string, error) {
		return RecordContent(domain.Appearance{
			ID:          item.ID,
			Category:    ref.Category,
			Name:        item.Name,
			Description: item.Description,
			Subcategory: item.Kind,
		})
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	logger.Debug("processAction", zap.String("action", action.Type()))

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.OpenCategoryAction:
		for i, cat := range domain.Categories {
			if cat == a.Category {
				m.menuCursor = i
			}
		}
		return m.openCategory(a.Category)

	case inputtypes.ChangePageAction:
		op := "next-page"
		step := m.browse.NextPage
		if a.Delta < 0 {
			op = "prev-page"
			step = m.browse.PrevPage
		}
		return m.browseCmd(op, step)

	case inputtypes.CycleSubcategoryAction:
		return m.cycleSubcategory()

	case inputtypes.BackAction:
		m.showDetail = false
		m.detail.Close()
		m.browse.GoBack()
		m.subcats = nil
		m.nav.SetCount(0)
		if m.prefs != nil {
			if err := m.prefs.Delete(prefs.KeyLastCategory); err != nil {
				logger.Warn("failed to forget last category", zap.Error(err))
			}
		}

	case inputtypes.ClearSearchAction:
		return m.browseCmd("search", func(ctx context.Context) (bool, error) {
			return true, m.browse.ClearSearch(ctx)
		})

	case inputtypes.RefreshAction:
		return tea.Batch(m.browseCmd("refresh", func(ctx context.Context) (bool, error) {
			return true, m.browse.Refresh(ctx)
		}), m.loadCounts())

	case inputtypes.SelectAction:
		if ref, ok := m.currentRef(); ok {
			m.selection.Toggle(ref)
		}

	case inputtypes.RangeSelectAction:
		if ref, ok := m.currentRef(); ok {
			m.selection.SelectRange(ref, m.browse.Rendered())
		}

	case inputtypes.SelectAllAction:
		m.selection.SelectAll(m.browse.Rendered())

	case inputtypes.DeselectAllAction:
		m.selection.Clear()

	case inputtypes.UndoAction:
		return m.replay(false)

	case inputtypes.RedoAction:
		return m.replay(true)

	case inputtypes.OpenDetailAction:
		ref, ok := m.currentRef()
		if !ok {
			return nil
		}
		m.showDetail = true
		return func() tea.Msg {
			err := m.detail.Open(context.Background(), ref)
			return detailMsg{moved: err == nil, err: err}
		}

	case inputtypes.CloseDetailAction:
		if ref, ok := m.detail.Current(); ok {
			m.focus(ref)
		}
		m.showDetail = false
		m.detail.Close()

	case inputtypes.DetailStepAction:
		dir := detail.Next
		if a.Direction == "prev" {
			dir = detail.Previous
		}
		return func() tea.Msg {
			moved, err := m.detail.NavigateAdjacent(context.Background(), dir)
			return detailMsg{moved: moved, err: err}
		}

	case inputtypes.DeleteAction:
		return m.executor.ExecuteDelete(m.selection.Selection())

	case inputtypes.DuplicateAction:
		return m.executor.ExecuteDuplicate(m.selection.Selection())

	case inputtypes.CopyFlagsAction:
		return m.executor.ExecuteCopyFlags(m.selection.Primary())

	case inputtypes.PasteFlagsAction:
		return m.executor.ExecutePasteFlags(m.selection.Selection())

	case inputtypes.SubmitTextAction:
		return m.submitText(a)

	case inputtypes.ShowHelpAction:
		return m.showPager("help", func() (string, error) { return HelpContent(m.keys), nil })

	case inputtypes.ShowRecordAction:
		ref, ok := m.currentRef()
		if m.showDetail {
			ref, ok = m.detail.Current()
		}
		if !ok {
			return nil
		}
		return m.showPager("record", m.recordFor(ref))

	case inputtypes.CycleThemeAction:
		theme := prefs.NextTheme(m.renderer.Theme())
		if m.prefs != nil {
			stored, err := m.prefs.SetTheme(theme)
			if err != nil {
				logger.Warn("failed to store theme", zap.Error(err))
			}
			theme = stored
		}
		m.renderer.SetTheme(theme)
		return m.setStatus(views.StatusInfo, "Theme: "+theme)

	case inputtypes.StatusAction:
		return m.setStatus(views.StatusInfo, a.Message)

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

func (m *Model) navigate(direction string) {
	if !m.browse.Active() {
		switch direction {
		case "up":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down":
			if m.menuCursor < len(domain.Categories)-1 {
				m.menuCursor++
			}
		}
		return
	}

	m.nav.Navigate(navigation.Direction(direction))
}

func (m *Model) cycleSubcategory() tea.Cmd {
	if len(m.subcats) == 0 {
		return m.setStatus(views.StatusInfo, fmt.Sprintf("%s has no subcategories", m.browse.State().Category))
	}
	current := m.browse.State().Subcategory
	next := m.subcats[0].Value
	for i, sub := range m.subcats {
		if sub.Value == current {
			next = m.subcats[(i+1)%len(m.subcats)].Value
			break
		}
	}
	return m.browseCmd("subcategory", func(ctx context.Context) (bool, error) {
		return true, m.browse.SwitchSubcategory(ctx, next)
	})
}

func (m *Model) replay(forward bool) tea.Cmd {
	var (
		replayed bool
		err      error
		verb     = "Undo"
	)
	if forward {
		verb = "Redo"
		replayed, err = m.history.Redo(context.Background())
	} else {
		replayed, err = m.history.Undo(context.Background())
	}

	switch {
	case err != nil:
		logger.Error("history replay failed", zap.String("op", verb), zap.Error(err))
		return m.setStatus(views.StatusError, fmt.Sprintf("%s failed: %v", verb, err))
	case !replayed:
		return m.setStatus(views.StatusInfo, fmt.Sprintf("Nothing to %s", strings.ToLower(verb)))
	}
	return nil
}

func (m *Model) submitText(a inputtypes.SubmitTextAction) tea.Cmd {
	text := strings.TrimSpace(a.Text)

	switch a.Mode {
	case inputtypes.ModeSearch:
		return m.browseCmd("search", func(ctx context.Context) (bool, error) {
			return true, m.browse.PerformSearch(ctx, text)
		})

	case inputtypes.ModePageSize:
		size, err := strconv.Atoi(text)
		if err != nil {
			return m.setStatus(views.StatusError, fmt.Sprintf("Invalid page size %q", text))
		}
		return m.browseCmd("page-size", func(ctx context.Context) (bool, error) {
			return true, m.browse.ChangePageSize(ctx, size)
		})

	case inputtypes.ModeExport:
		if text == "" {
			text = m.exportDir()
		}
		if m.prefs != nil {
			if err := m.prefs.Set(prefs.KeyLastExport, text); err != nil {
				logger.Warn("failed to store export dir", zap.Error(err))
			}
		}
		return tea.Batch(
			m.setStatus(views.StatusLoading, "Exporting..."),
			m.executor.ExecuteExport(m.selection.Selection(), text),
		)
	}
	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case catalogMsg:
		if m.loading > 0 {
			m.loading--
		}
		return m, m.handleCatalogResult(msg)

	case subcategoriesMsg:
		if msg.err != nil {
			logger.Warn("failed to load subcategories", zap.String("category", msg.category), zap.Error(msg.err))
			return m, m.setStatus(views.StatusError, "Failed to load subcategories")
		}
		m.subcats = msg.items
		return m, nil

	case countsMsg:
		if msg.err != nil {
			logger.Warn("failed to load category counts", zap.Error(msg.err))
			return m, nil
		}
		m.counts = msg.counts
		return m, nil

	case detailMsg:
		if errors.Is(msg.err, browse.ErrStaleResponse) {
			logger.Debug("dropping stale page during detail navigation")
			return m, nil
		}
		if msg.err != nil {
			return m, m.setStatus(views.StatusError, fmt.Sprintf("Failed to load asset: %v", msg.err))
		}
		if ref, ok := m.detail.Current(); ok && msg.moved {
			m.nav.SetCount(len(m.browse.Items()))
			m.focus(ref)
		}
		return m, nil

	case commands.BatchCompletedMsg:
		return m, m.handleBatchResult(msg)

	case pagerMsg:
		if msg.err != nil {
			logger.Warn("pager failed", zap.String("what", msg.what), zap.Error(msg.err))
			return m, m.setStatus(views.StatusError, fmt.Sprintf("Failed to show %s: %v", msg.what, msg.err))
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusKind = ""
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	return m, nil
}

func (m *Model) handleCatalogResult(msg catalogMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, browse.ErrStaleResponse):
		return nil
	case errors.Is(msg.err, browse.ErrNoCategory):
		return m.setStatus(views.StatusInfo, "Open a category first")
	case errors.Is(msg.err, browse.ErrInvalidPage):
		return m.setStatus(views.StatusError, "Page size must be a positive number")
	case msg.err != nil:
		// The browse service already published an ErrorEvent for the status line
		logger.Debug("browse operation failed", zap.String("op", msg.op), zap.Error(msg.err))
		return nil
	}

	m.nav.SetCount(len(m.browse.Items()))
	switch msg.op {
	case "open":
		m.nav.Reset()
		if m.prefs != nil {
			if err := m.prefs.Set(prefs.KeyLastCategory, m.browse.State().Category); err != nil {
				logger.Warn("failed to store last category", zap.Error(err))
			}
		}
	case "next-page", "prev-page":
		if !msg.changed {
			return m.setStatus(views.StatusInfo, "No more pages")
		}
		m.nav.Reset()
	case "search", "subcategory", "page-size":
		m.nav.Reset()
	}
	return nil
}

func (m *Model) handleBatchResult(msg commands.BatchCompletedMsg) tea.Cmd {
	kind := views.StatusSuccess
	if msg.Err != nil {
		kind = views.StatusError
	}
	cmds := []tea.Cmd{m.setStatus(kind, msg.Message)}

	if msg.Op == commands.OpDelete && m.showDetail {
		if cur, ok := m.detail.Current(); ok {
			for _, ref := range msg.Done {
				if ref == cur {
					m.showDetail = false
					m.detail.Close()
					break
				}
			}
		}
	}

	if (msg.Op == commands.OpDelete || msg.Op == commands.OpDuplicate) && len(msg.Done) > 0 {
		cmds = append(cmds, m.browseCmd("refresh", func(ctx context.Context) (bool, error) {
			return true, m.browse.Refresh(ctx)
		}), m.loadCounts())
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.ErrorEvent:
		text := e.Message
		if e.Err != nil {
			text = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return m.setStatus(views.StatusError, text)

	case eventbus.CountsLoadedEvent:
		m.counts = e.Counts

	case eventbus.ConfigChangedEvent:
		if e.PageSize <= 0 || e.PageSize == m.config.Browse.PageSize {
			return nil
		}
		m.config.Browse.PageSize = e.PageSize
		if !m.browse.Active() {
			return nil
		}
		return tea.Batch(
			m.setStatus(views.StatusInfo, fmt.Sprintf("Config reloaded: %d per page", e.PageSize)),
			m.browseCmd("page-size", func(ctx context.Context) (bool, error) {
				return true, m.browse.ChangePageSize(ctx, e.PageSize)
			}),
		)

	case eventbus.AssetsDuplicatedEvent:
		logger.Debug("assets duplicated", zap.Int("created", len(e.Created)))

	case eventbus.AssetsDeletedEvent:
		logger.Debug("assets deleted", zap.Int("count", len(e.Refs)))
	}
	return nil
}
