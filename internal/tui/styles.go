package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ralph-dev/ralph/internal/session"
)

// Color constants for the purple/violet ralph theme.
const (
	primaryColor   = "#8A2BE2" // Violet
	secondaryColor = "#10B981" // Green
	warningColor   = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	textColor      = "#E5E7EB" // Near-white
	accentColor    = "#06B6D4" // Cyan
	reasoningColor = "#C084FC" // Magenta-ish
	dimColor       = "#6B7280" // Gray
)

// Style variables for consistent rendering.
var (
	// HeaderStyle renders the top banner.
	HeaderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Bold(true).
			Padding(0, 1)

	// InfoBoxStyle frames the left info panel.
	InfoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accentColor)).
			Padding(1, 1)

	// LogBoxStyle frames the right log panel.
	LogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(warningColor)).
			Padding(0, 1)

	// TitleStyle renders panel titles.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(accentColor)).
			Bold(true)

	// LabelStyle renders info panel row labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(accentColor)).
			Bold(true)

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders success messages in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warnings and active tools in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// RunningStyle renders the RUNNING status.
	RunningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor)).
			Bold(true)

	// SummaryBoxStyle frames the final run summary.
	SummaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(secondaryColor)).
			Padding(0, 2)

	// InterruptBoxStyle frames the interrupted summary.
	InterruptBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(warningColor)).
				Padding(0, 2)
)

// kindGlyph maps an entry kind to its icon and style. The state model keeps
// kinds abstract; this table is the one place styling lives.
type glyph struct {
	icon  string
	style lipgloss.Style
}

var kindGlyphs = map[session.Kind]glyph{
	session.KindInfo:      {"*", lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))},
	session.KindSystem:    {"i", lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))},
	session.KindAssistant: {">", lipgloss.NewStyle().Foreground(lipgloss.Color(textColor))},
	session.KindReasoning: {"~", lipgloss.NewStyle().Foreground(lipgloss.Color(reasoningColor))},
	session.KindToolStart: {"+", WarningStyle},
	session.KindToolOK:    {"✓", SuccessStyle},
	session.KindToolError: {"!", ErrorStyle},
	session.KindFile:      {"✎", lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))},
	session.KindSearch:    {"?", lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))},
	session.KindResult:    {"=", lipgloss.NewStyle().Foreground(lipgloss.Color(textColor))},
	session.KindCost:      {"$", lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))},
	session.KindError:     {"✗", ErrorStyle},
	session.KindSuccess:   {"✓", SuccessStyle},
	session.KindFailure:   {"✗", ErrorStyle},
	session.KindRaw:       {"·", DimStyle},
	session.KindItem:      {"·", DimStyle},
}

// glyphFor returns the icon and style for a kind, defaulting to dim.
func glyphFor(k session.Kind) glyph {
	if g, ok := kindGlyphs[k]; ok {
		return g
	}
	return glyph{"·", DimStyle}
}
