package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
	"gopkg.in/yaml.v3"

	"assetgrip/internal/domain"
)

// HelpContent renders every key binding, grouped by section, for the pager
func HelpContent(keys keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(14)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("assetgrip Help"))
	help.WriteString("\n")

	for i, group := range keys.FullHelp() {
		if i < len(sectionTitles) {
			help.WriteString(sectionStyle.Render(sectionTitles[i]))
			help.WriteString("\n")
		}
		for _, b := range group {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s%s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
		help.WriteString("\n")
	}

	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  Delete, duplicate and flag edits apply to appearances only; sounds are read-only."))
	return help.String()
}

// RecordContent renders an asset record as YAML for the pager
func RecordContent(rec domain.Appearance) (string, error) {
	out, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("render record %s#%d: %w", rec.Category, rec.ID, err)
	}
	header := fmt.Sprintf("# %s #%d\n", rec.Category, rec.ID)
	return header + string(out), nil
}

// Pager shows long content in ov while the program has released the terminal
type Pager struct {
	program *tea.Program
}

func NewPager(program *tea.Program) *Pager {
	return &Pager{program: program}
}

// Show runs ov over content until the user quits it
func (p *Pager) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave the alternate screen before taking it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
