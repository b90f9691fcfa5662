package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"assetgrip/internal/domain"
)

// ManifestName is the file written next to the exported records
const ManifestName = "manifest.yaml"

// Manifest lists the records written by one export
type Manifest struct {
	ExportedAt time.Time       `yaml:"exported_at"`
	Count      int             `yaml:"count"`
	Assets     []ManifestEntry `yaml:"assets"`
}

// ManifestEntry is one exported appearance
type ManifestEntry struct {
	Category string `yaml:"category"`
	ID       int    `yaml:"id"`
	Name     string `yaml:"name,omitempty"`
	File     string `yaml:"file"`
}

// ExportCommand writes each target as JSON through the backend and records
// the batch in a YAML manifest
type ExportCommand struct {
	ctx     *CommandContext
	targets []domain.AssetRef
	dir     string
	now     func() time.Time
}

// NewExportCommand creates an export into dir. A leading ~ is expanded.
func NewExportCommand(ctx *CommandContext, targets []domain.AssetRef, dir string) *ExportCommand {
	return &ExportCommand{ctx: ctx, targets: supportedTargets(targets), dir: dir, now: time.Now}
}

// ExportFileName is the JSON file name used for ref
func ExportFileName(ref domain.AssetRef) string {
	return fmt.Sprintf("%s_%d.json", strings.ToLower(ref.Category), ref.ID)
}

func (c *ExportCommand) Run(ctx context.Context) (BatchCompletedMsg, error) {
	msg := BatchCompletedMsg{Op: OpExport}
	if len(c.targets) == 0 {
		return msg, ErrNothingSelected
	}

	dir, err := homedir.Expand(c.dir)
	if err != nil {
		return msg, fmt.Errorf("expand export dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return msg, fmt.Errorf("create export dir: %w", err)
	}

	manifest := Manifest{ExportedAt: c.now().UTC()}
	done, err := runBatch(ctx, msg.Op, c.targets, func(ctx context.Context, ref domain.AssetRef) error {
		app, err := c.ctx.Backend.GetCompleteAppearance(ctx, ref)
		if err != nil {
			return err
		}
		file := ExportFileName(ref)
		if err := c.ctx.Backend.ExportAppearanceToJSON(ctx, ref, filepath.Join(dir, file)); err != nil {
			return err
		}
		manifest.Assets = append(manifest.Assets, ManifestEntry{
			Category: ref.Category,
			ID:       ref.ID,
			Name:     app.Name,
			File:     file,
		})
		return nil
	})
	msg.Done = done
	manifest.Count = len(manifest.Assets)

	// The manifest always describes what reached disk, even after a failure.
	if len(manifest.Assets) > 0 {
		if werr := writeManifest(filepath.Join(dir, ManifestName), manifest); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		msg.Message = "Failed to export appearances"
		return msg, err
	}
	msg.Message = fmt.Sprintf("Exported %d appearances to %s", len(done), dir)
	return msg, nil
}

func (c *ExportCommand) Execute() tea.Cmd {
	return toCmd(c)
}

func writeManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return enc.Close()
}

// ReadManifest loads a manifest written by ExportCommand
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}
