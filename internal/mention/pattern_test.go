package mention

import (
	"reflect"
	"testing"
)

func TestTrailingLen(t *testing.T) {
	tests := []struct {
		prefix string
		want   int
	}{
		{"ping @John Smith ", len("@John Smith ")},
		{"ping @John Smith", len("@John Smith")},
		{"ping @John", len("@John")},
		{"x @Bo ", len("@Bo ")},
		{"ping @john", 0},
		{"@Ada Bob Carl", 0},
		{"@Bo  ", 0},
		{"@Ada @Bob", len("@Bob")},
		{"plain", 0},
		{"", 0},
		{"é @Zoe", len("@Zoe")},
	}
	for _, tt := range tests {
		if got := TrailingLen(tt.prefix); got != tt.want {
			t.Fatalf("TrailingLen(%q): expected %d, got %d", tt.prefix, tt.want, got)
		}
	}
}

func TestSpansCoverText(t *testing.T) {
	text := "hey @Ada Lovelace, meet @Bob."
	spans := Spans(text)
	pos := 0
	var mentions []string
	for _, sp := range spans {
		if sp.Start != pos {
			t.Fatalf("expected span to start at %d, got %d", pos, sp.Start)
		}
		if sp.Mention {
			mentions = append(mentions, text[sp.Start:sp.End])
		}
		pos = sp.End
	}
	if pos != len(text) {
		t.Fatalf("expected spans to end at %d, got %d", len(text), pos)
	}
	want := []string{"@Ada Lovelace", "@Bob"}
	if !reflect.DeepEqual(mentions, want) {
		t.Fatalf("expected mentions %q, got %q", want, mentions)
	}
	if Spans("") != nil {
		t.Fatalf("expected nil spans for empty text")
	}
}

func TestNames(t *testing.T) {
	got := Names("hi @Ada Lovelace and @Bob\n@Cy  Dee")
	want := []string{"Ada Lovelace", "Bob", "Cy Dee"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := Names("no mentions @here"); got != nil {
		t.Fatalf("expected no names, got %q", got)
	}
}

func TestIsName(t *testing.T) {
	tests := map[string]bool{
		"Ada":          true,
		"Ada Lovelace": true,
		"McDonald":     true,
		"ada":          false,
		"Ada  Byron":   false,
		"Ada Byron ":   false,
		"Bob Smith Jr": false,
		"Zoë":          false,
		"":             false,
	}
	for name, want := range tests {
		if got := IsName(name); got != want {
			t.Fatalf("IsName(%q): expected %v, got %v", name, want, got)
		}
	}
}
