package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type Theme struct {
	AppFrame           lipgloss.Style
	Header             lipgloss.Style
	HeaderTitle        lipgloss.Style
	HeaderValue        lipgloss.Style
	InputBorder        lipgloss.Style
	InputText          lipgloss.Style
	Mention            lipgloss.Style
	Cursor             lipgloss.Style
	Placeholder        lipgloss.Style
	SuggestionBox      lipgloss.Style
	SuggestionItem     lipgloss.Style
	SuggestionSelected lipgloss.Style
	SuggestionHint     lipgloss.Style
	LogBorder          lipgloss.Style
	LogTimestamp       lipgloss.Style
	LogMessage         lipgloss.Style
	LogMention         lipgloss.Style
	StatusBar          lipgloss.Style
	StatusBarKey       lipgloss.Style
	StatusBarValue     lipgloss.Style
	Notification       lipgloss.Style
	Error              lipgloss.Style
	Success            lipgloss.Style
}

func DefaultTheme() Theme {
	accent := lipgloss.Color("#7D56F4")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff"))

	return Theme{
		AppFrame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#403B59")),
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E1FF")).Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().Foreground(accent).Bold(true),
		HeaderValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#D1CFF6")),
		InputBorder: base.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(accent),
		InputText:   base,
		Mention: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F111A")).
			Background(lipgloss.Color("#9CD6FF")),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6A86")).Italic(true),
		SuggestionBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A78BFA")).
			Padding(0, 1),
		SuggestionItem: lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E1FF")),
		SuggestionSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F111A")).
			Background(lipgloss.Color("#FFD46A")).
			Bold(true),
		SuggestionHint: lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6A86")),
		LogBorder: base.BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FB3B3")),
		LogTimestamp:   lipgloss.NewStyle().Foreground(lipgloss.Color("#867CC1")),
		LogMessage:     lipgloss.NewStyle().Foreground(lipgloss.Color("#EAEAEA")),
		LogMention:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9CD6FF")).Bold(true),
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")).Padding(0, 1),
		StatusBarKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8B39")).Bold(true),
		StatusBarValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#EAEAEA")),
		Notification: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0DEF4")).
			Background(lipgloss.Color("#433C59")).
			Padding(0, 1),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
	}
}

// ForProfile adjusts t for terminals that cannot render colour. Without
// colour a background highlight disappears, so mentions and the selected
// suggestion fall back to text attributes.
func (t Theme) ForProfile(p termenv.Profile) Theme {
	if p != termenv.Ascii {
		return t
	}
	t.Mention = t.Mention.Underline(true).Bold(true)
	t.SuggestionSelected = t.SuggestionSelected.Reverse(true)
	t.LogMention = t.LogMention.Underline(true)
	return t
}
