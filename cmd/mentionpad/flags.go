package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"

	"github.com/unkn0wn-root/mentionpad/internal/config"
	"github.com/unkn0wn-root/mentionpad/internal/errdef"
	"github.com/unkn0wn-root/mentionpad/internal/telemetry"
	"github.com/unkn0wn-root/mentionpad/internal/timefmt"
)

type options struct {
	roster       string
	database     string
	relayURL     string
	serveAddr    string
	timeFormat   timefmt.Format
	showVersion  bool
	initSettings bool
	telemetry    telemetry.Config
}

var usageText = heredoc.Doc(`
	Usage: mentionpad [flags]

	A terminal message composer with @mention autocomplete.

	Suggestions come from a YAML roster (-roster), a SQLite member
	database (-db) or a relay server (-relay). With -serve the binary runs
	the relay server instead of the composer.

	Examples:
	  mentionpad -roster team.yaml
	  mentionpad -db members.db -roster team.yaml
	  mentionpad -serve :8080 -roster team.yaml
	  mentionpad -relay ws://localhost:8080/
	  mentionpad -init

	Flags:
`)

// parseFlags reads args over the environment defaults. Flags win over
// MENTIONPAD_OTEL_* variables.
func parseFlags(args []string, getenv func(string) string, out io.Writer) (options, error) {
	opts := options{telemetry: telemetry.ConfigFromEnv(getenv)}
	var (
		timeFormat  string
		dialTimeout = opts.telemetry.DialTimeout
		headers     string
	)

	fs := flag.NewFlagSet("mentionpad", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		_, _ = fmt.Fprint(out, usageText)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.roster, "roster", "", "YAML roster of people that can be mentioned")
	fs.StringVar(&opts.database, "db", "", "SQLite member database (roster is imported into it when both are set)")
	fs.StringVar(&opts.relayURL, "relay", "", "Relay server WebSocket URL for suggestions and delivery")
	fs.StringVar(&opts.serveAddr, "serve", "", "Run the relay server on this address instead of the composer")
	fs.StringVar(&timeFormat, "time-format", "", `Message timestamp layout: "" or "date-time"`)
	fs.BoolVar(&opts.showVersion, "version", false, "Show mentionpad version")
	fs.BoolVar(&opts.initSettings, "init", false, "Write settings with defaults filled in, then exit")
	fs.StringVar(
		&opts.telemetry.Endpoint,
		"otel-endpoint",
		opts.telemetry.Endpoint,
		"OTLP collector endpoint for query and submit spans",
	)
	fs.BoolVar(
		&opts.telemetry.Insecure,
		"otel-insecure",
		opts.telemetry.Insecure,
		"Disable TLS for OTLP trace export",
	)
	fs.StringVar(
		&opts.telemetry.ServiceName,
		"otel-service",
		opts.telemetry.ServiceName,
		"Override service.name resource attribute for exported spans",
	)
	fs.DurationVar(&dialTimeout, "otel-dial-timeout", dialTimeout, "OTLP exporter dial timeout")
	fs.StringVar(&headers, "otel-headers", "", "Extra OTLP headers as k=v,k2=v2")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, errdef.New(errdef.CodeConfig, "unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	switch f := timefmt.Format(strings.TrimSpace(timeFormat)); f {
	case timefmt.FormatDefault, timefmt.FormatDateTime:
		opts.timeFormat = f
	default:
		return options{}, errdef.New(errdef.CodeConfig, "unknown -time-format %q", timeFormat)
	}

	opts.telemetry.Endpoint = strings.TrimSpace(opts.telemetry.Endpoint)
	opts.telemetry.ServiceName = strings.TrimSpace(opts.telemetry.ServiceName)
	if opts.telemetry.ServiceName == "" {
		opts.telemetry.ServiceName = telemetry.DefaultServiceName
	}
	if dialTimeout > 0 {
		opts.telemetry.DialTimeout = dialTimeout
	}
	if strings.TrimSpace(headers) != "" {
		parsed, err := telemetry.ParseHeaders(headers)
		if err != nil {
			return options{}, err
		}
		opts.telemetry.Headers = parsed
	}
	return opts, nil
}

// applySettings fills source flags that were not given from settings.
func (o *options) applySettings(s config.SourceSettings) {
	if o.roster == "" {
		o.roster = strings.TrimSpace(s.Roster)
	}
	if o.database == "" {
		o.database = strings.TrimSpace(s.Database)
	}
	if o.relayURL == "" && s.Kind == config.SourceKindRelay {
		o.relayURL = strings.TrimSpace(s.URL)
	}
}
