package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

type Metadata struct {
	Name        string   `json:"name"        toml:"name"`
	Description string   `json:"description" toml:"description"`
	Author      string   `json:"author"      toml:"author"`
	Version     string   `json:"version"     toml:"version"`
	Tags        []string `json:"tags"        toml:"tags"`
}

// ThemeSpec is the on-disk shape of a user theme. Only the styles that are
// present override the base theme.
type ThemeSpec struct {
	Metadata *Metadata  `json:"metadata" toml:"metadata"`
	Styles   StylesSpec `json:"styles"   toml:"styles"`
}

type StylesSpec struct {
	AppFrame           *StyleSpec `json:"app_frame"           toml:"app_frame"`
	Header             *StyleSpec `json:"header"              toml:"header"`
	HeaderTitle        *StyleSpec `json:"header_title"        toml:"header_title"`
	HeaderValue        *StyleSpec `json:"header_value"        toml:"header_value"`
	InputBorder        *StyleSpec `json:"input_border"        toml:"input_border"`
	InputText          *StyleSpec `json:"input_text"          toml:"input_text"`
	Mention            *StyleSpec `json:"mention"             toml:"mention"`
	Cursor             *StyleSpec `json:"cursor"              toml:"cursor"`
	Placeholder        *StyleSpec `json:"placeholder"         toml:"placeholder"`
	SuggestionBox      *StyleSpec `json:"suggestion_box"      toml:"suggestion_box"`
	SuggestionItem     *StyleSpec `json:"suggestion_item"     toml:"suggestion_item"`
	SuggestionSelected *StyleSpec `json:"suggestion_selected" toml:"suggestion_selected"`
	SuggestionHint     *StyleSpec `json:"suggestion_hint"     toml:"suggestion_hint"`
	LogBorder          *StyleSpec `json:"log_border"          toml:"log_border"`
	LogTimestamp       *StyleSpec `json:"log_timestamp"       toml:"log_timestamp"`
	LogMessage         *StyleSpec `json:"log_message"         toml:"log_message"`
	LogMention         *StyleSpec `json:"log_mention"         toml:"log_mention"`
	StatusBar          *StyleSpec `json:"status_bar"          toml:"status_bar"`
	StatusBarKey       *StyleSpec `json:"status_bar_key"      toml:"status_bar_key"`
	StatusBarValue     *StyleSpec `json:"status_bar_value"    toml:"status_bar_value"`
	Notification       *StyleSpec `json:"notification"        toml:"notification"`
	Error              *StyleSpec `json:"error"               toml:"error"`
	Success            *StyleSpec `json:"success"             toml:"success"`
}

type StyleSpec struct {
	Foreground       *string `json:"foreground"        toml:"foreground"`
	Background       *string `json:"background"        toml:"background"`
	BorderColor      *string `json:"border_color"      toml:"border_color"`
	BorderBackground *string `json:"border_background" toml:"border_background"`
	BorderStyle      *string `json:"border_style"      toml:"border_style"`
	Bold             *bool   `json:"bold"              toml:"bold"`
	Italic           *bool   `json:"italic"            toml:"italic"`
	Underline        *bool   `json:"underline"         toml:"underline"`
	Faint            *bool   `json:"faint"             toml:"faint"`
	Reverse          *bool   `json:"reverse"           toml:"reverse"`
	Strikethrough    *bool   `json:"strikethrough"     toml:"strikethrough"`
	Align            *string `json:"align"             toml:"align"`
}

type styleTarget struct {
	name     string
	target   *lipgloss.Style
	override *StyleSpec
}

func ApplySpec(base Theme, spec ThemeSpec) (Theme, error) {
	out := base
	s := spec.Styles
	targets := []styleTarget{
		{"app_frame", &out.AppFrame, s.AppFrame},
		{"header", &out.Header, s.Header},
		{"header_title", &out.HeaderTitle, s.HeaderTitle},
		{"header_value", &out.HeaderValue, s.HeaderValue},
		{"input_border", &out.InputBorder, s.InputBorder},
		{"input_text", &out.InputText, s.InputText},
		{"mention", &out.Mention, s.Mention},
		{"cursor", &out.Cursor, s.Cursor},
		{"placeholder", &out.Placeholder, s.Placeholder},
		{"suggestion_box", &out.SuggestionBox, s.SuggestionBox},
		{"suggestion_item", &out.SuggestionItem, s.SuggestionItem},
		{"suggestion_selected", &out.SuggestionSelected, s.SuggestionSelected},
		{"suggestion_hint", &out.SuggestionHint, s.SuggestionHint},
		{"log_border", &out.LogBorder, s.LogBorder},
		{"log_timestamp", &out.LogTimestamp, s.LogTimestamp},
		{"log_message", &out.LogMessage, s.LogMessage},
		{"log_mention", &out.LogMention, s.LogMention},
		{"status_bar", &out.StatusBar, s.StatusBar},
		{"status_bar_key", &out.StatusBarKey, s.StatusBarKey},
		{"status_bar_value", &out.StatusBarValue, s.StatusBarValue},
		{"notification", &out.Notification, s.Notification},
		{"error", &out.Error, s.Error},
		{"success", &out.Success, s.Success},
	}
	for _, t := range targets {
		if t.override == nil {
			continue
		}
		next, err := t.override.apply(*t.target)
		if err != nil {
			return Theme{}, errdef.Wrap(errdef.CodeConfig, err, "%s", t.name)
		}
		*t.target = next
	}
	return out, nil
}

func (s *StyleSpec) apply(base lipgloss.Style) (lipgloss.Style, error) {
	current := base
	colors := []struct {
		field string
		value *string
		set   func(lipgloss.Style, lipgloss.TerminalColor) lipgloss.Style
	}{
		{"foreground", s.Foreground, lipgloss.Style.Foreground},
		{"background", s.Background, lipgloss.Style.Background},
		{"border_color", s.BorderColor, func(st lipgloss.Style, c lipgloss.TerminalColor) lipgloss.Style {
			return st.BorderForeground(c)
		}},
		{"border_background", s.BorderBackground, func(st lipgloss.Style, c lipgloss.TerminalColor) lipgloss.Style {
			return st.BorderBackground(c)
		}},
	}
	for _, c := range colors {
		if c.value == nil {
			continue
		}
		color, err := toColor(c.field, *c.value)
		if err != nil {
			return lipgloss.Style{}, err
		}
		current = c.set(current, color)
	}
	if s.BorderStyle != nil {
		normalized := strings.ToLower(strings.TrimSpace(*s.BorderStyle))
		if normalized != "inherit" {
			border, err := parseBorderStyle(normalized)
			if err != nil {
				return lipgloss.Style{}, err
			}
			current = current.BorderStyle(border)
		}
	}
	if s.Bold != nil {
		current = current.Bold(*s.Bold)
	}
	if s.Italic != nil {
		current = current.Italic(*s.Italic)
	}
	if s.Underline != nil {
		current = current.Underline(*s.Underline)
	}
	if s.Faint != nil {
		current = current.Faint(*s.Faint)
	}
	if s.Reverse != nil {
		current = current.Reverse(*s.Reverse)
	}
	if s.Strikethrough != nil {
		current = current.Strikethrough(*s.Strikethrough)
	}
	if s.Align != nil {
		align, err := parseAlign(*s.Align)
		if err != nil {
			return lipgloss.Style{}, err
		}
		current = current.Align(align)
	}
	return current, nil
}

func toColor(field string, value string) (lipgloss.Color, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errdef.New(errdef.CodeConfig, "%s: colour value may not be empty", field)
	}
	return lipgloss.Color(trimmed), nil
}

func parseAlign(value string) (lipgloss.Position, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "start", "default", "":
		return lipgloss.Left, nil
	case "center", "centre", "middle":
		return lipgloss.Center, nil
	case "right", "end":
		return lipgloss.Right, nil
	default:
		return lipgloss.Left, errdef.New(errdef.CodeConfig, "align: unknown alignment %q", value)
	}
}

func parseBorderStyle(value string) (lipgloss.Border, error) {
	switch value {
	case "":
		return lipgloss.Border{}, errdef.New(errdef.CodeConfig, "border_style: value may not be empty")
	case "none", "hidden", "off":
		return lipgloss.HiddenBorder(), nil
	case "normal", "single":
		return lipgloss.NormalBorder(), nil
	case "rounded":
		return lipgloss.RoundedBorder(), nil
	case "thick", "heavy":
		return lipgloss.ThickBorder(), nil
	case "double":
		return lipgloss.DoubleBorder(), nil
	case "ascii":
		return lipgloss.ASCIIBorder(), nil
	case "block":
		return lipgloss.BlockBorder(), nil
	default:
		return lipgloss.Border{}, errdef.New(errdef.CodeConfig, "border_style: unknown border style %q", value)
	}
}
