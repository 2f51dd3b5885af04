package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestApplySpecOverridesOnlyNamedStyles(t *testing.T) {
	fg := "#101010"
	border := "double"
	underline := true
	spec := ThemeSpec{Styles: StylesSpec{
		Mention:     &StyleSpec{Foreground: &fg, Underline: &underline},
		InputBorder: &StyleSpec{BorderStyle: &border},
	}}

	base := DefaultTheme()
	got, err := ApplySpec(base, spec)
	if err != nil {
		t.Fatalf("ApplySpec: %v", err)
	}
	if got.Mention.GetForeground() != lipgloss.Color(fg) {
		t.Fatalf("expected mention foreground %s, got %v", fg, got.Mention.GetForeground())
	}
	if !got.Mention.GetUnderline() {
		t.Fatalf("expected mention underline")
	}
	if got.Mention.GetBackground() != base.Mention.GetBackground() {
		t.Fatalf("expected mention background to be inherited")
	}
	if got.InputBorder.GetBorderStyle() != lipgloss.DoubleBorder() {
		t.Fatalf("expected double border")
	}
	if base.Mention.GetUnderline() {
		t.Fatalf("expected base theme to remain untouched")
	}
}

func TestApplySpecRejectsInvalidValues(t *testing.T) {
	empty := " "
	align := "diagonal"
	cases := []ThemeSpec{
		{Styles: StylesSpec{Error: &StyleSpec{Foreground: &empty}}},
		{Styles: StylesSpec{Header: &StyleSpec{Align: &align}}},
	}
	for i, spec := range cases {
		if _, err := ApplySpec(DefaultTheme(), spec); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestForProfileAsciiFallsBackToAttributes(t *testing.T) {
	base := DefaultTheme()
	if got := base.ForProfile(termenv.TrueColor); got.Mention.GetUnderline() {
		t.Fatalf("expected colour profiles to keep the theme as is")
	}
	ascii := base.ForProfile(termenv.Ascii)
	if !ascii.Mention.GetUnderline() || !ascii.Mention.GetBold() {
		t.Fatalf("expected mention to be underlined and bold without colour")
	}
	if !ascii.SuggestionSelected.GetReverse() {
		t.Fatalf("expected selected suggestion to be reversed without colour")
	}
}
