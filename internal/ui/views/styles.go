package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme assigns
type Palette struct {
	Accent    string
	Secondary string
	Muted     string
	Selected  string
	Primary   string
	Cursor    string
	Error     string
	Warning   string
	Success   string
}

var palettes = map[string]Palette{
	"default": {Accent: "99", Secondary: "39", Muted: "241", Selected: "24", Primary: "220", Cursor: "238", Error: "203", Warning: "214", Success: "78"},
	"ocean":   {Accent: "33", Secondary: "45", Muted: "244", Selected: "25", Primary: "51", Cursor: "236", Error: "203", Warning: "221", Success: "42"},
	"aurora":  {Accent: "135", Secondary: "86", Muted: "242", Selected: "54", Primary: "219", Cursor: "237", Error: "197", Warning: "214", Success: "121"},
	"ember":   {Accent: "208", Secondary: "166", Muted: "240", Selected: "88", Primary: "226", Cursor: "236", Error: "196", Warning: "220", Success: "148"},
	"forest":  {Accent: "71", Secondary: "108", Muted: "243", Selected: "22", Primary: "190", Cursor: "236", Error: "167", Warning: "179", Success: "114"},
	"dusk":    {Accent: "141", Secondary: "104", Muted: "245", Selected: "60", Primary: "217", Cursor: "238", Error: "204", Warning: "222", Success: "150"},
}

// PaletteFor returns the palette of theme, falling back to the default one
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["default"]
}

// Styles contains all the style definitions for the UI
type Styles struct {
	Theme         string
	Title         lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	CardPrimary   lipgloss.Style
	CardCursor    lipgloss.Style
	CardID        lipgloss.Style
	DetailBox     lipgloss.Style
	DetailLabel   lipgloss.Style
	Highlight     lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates the styles for theme
func NewStyles(theme string) *Styles {
	p := PaletteFor(theme)
	card := lipgloss.NewStyle().
		Width(CardWidth).
		Height(CardHeight).
		Padding(0, 1)

	return &Styles{
		Theme: theme,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Accent)),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Secondary)).Underline(true).Padding(0, 1),
		Confirm:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Warning)),
		Dim:       lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			MarginTop(1),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),
		Help:   lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Card:         card,
		CardSelected: card.Background(lipgloss.Color(p.Selected)),
		CardPrimary: card.
			Background(lipgloss.Color(p.Selected)).
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),
		CardCursor: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		CardID:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Secondary)),
		DetailBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Accent)).
			Padding(1, 2),
		DetailLabel:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Width(14),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Primary)).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)),
	}
}
