package config

import "strings"

type SourceKind string

const (
	SourceKindMemory SourceKind = "memory"
	SourceKindSQLite SourceKind = "sqlite"
	SourceKindRelay  SourceKind = "relay"
)

type MentionSettings struct {
	HighlightClass string `json:"highlight_class" toml:"highlight_class"`
	ListLimit      int    `json:"list_limit"      toml:"list_limit"`
}

type SourceSettings struct {
	Kind     SourceKind `json:"kind"     toml:"kind"`
	Roster   string     `json:"roster"   toml:"roster"`
	Database string     `json:"database" toml:"database"`
	URL      string     `json:"url"      toml:"url"`
}

type HistorySettings struct {
	MaxEntries int `json:"max_entries" toml:"max_entries"`
}

const (
	MentionHighlightClassDefault = "mention"
	MentionListLimitDefault      = 6
	MentionListLimitMin          = 1
	MentionListLimitMax          = 20
	HistoryMaxEntriesDefault     = 500
	HistoryMaxEntriesMin         = 10
	HistoryMaxEntriesMax         = 10000
)

func DefaultMentionSettings() MentionSettings {
	return MentionSettings{
		HighlightClass: MentionHighlightClassDefault,
		ListLimit:      MentionListLimitDefault,
	}
}

func NormaliseMentionSettings(in MentionSettings) MentionSettings {
	out := DefaultMentionSettings()
	if class := strings.TrimSpace(in.HighlightClass); class != "" {
		out.HighlightClass = class
	}
	out.ListLimit = clamp(
		in.ListLimit,
		MentionListLimitMin,
		MentionListLimitMax,
		MentionListLimitDefault,
	)
	return out
}

// NormaliseSourceSettings fills the kind from whichever location is set when
// the kind is missing or unknown.
func NormaliseSourceSettings(in SourceSettings) SourceSettings {
	out := SourceSettings{
		Roster:   strings.TrimSpace(in.Roster),
		Database: strings.TrimSpace(in.Database),
		URL:      strings.TrimSpace(in.URL),
	}
	switch SourceKind(strings.ToLower(strings.TrimSpace(string(in.Kind)))) {
	case SourceKindMemory:
		out.Kind = SourceKindMemory
	case SourceKindSQLite:
		out.Kind = SourceKindSQLite
	case SourceKindRelay:
		out.Kind = SourceKindRelay
	default:
		out.Kind = inferSourceKind(out)
	}
	return out
}

func inferSourceKind(s SourceSettings) SourceKind {
	switch {
	case s.URL != "":
		return SourceKindRelay
	case s.Database != "":
		return SourceKindSQLite
	default:
		return SourceKindMemory
	}
}

func NormaliseHistorySettings(in HistorySettings) HistorySettings {
	return HistorySettings{
		MaxEntries: clamp(
			in.MaxEntries,
			HistoryMaxEntriesMin,
			HistoryMaxEntriesMax,
			HistoryMaxEntriesDefault,
		),
	}
}

func clamp[T ~int | ~float64](value, min, max, fallback T) T {
	if value == 0 {
		return fallback
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
