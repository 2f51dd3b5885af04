package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/mentionpad/internal/bindings"
	"github.com/unkn0wn-root/mentionpad/internal/config"
	"github.com/unkn0wn-root/mentionpad/internal/history"
	"github.com/unkn0wn-root/mentionpad/internal/relay"
	"github.com/unkn0wn-root/mentionpad/internal/telemetry"
	"github.com/unkn0wn-root/mentionpad/internal/theme"
	"github.com/unkn0wn-root/mentionpad/internal/ui"
	"github.com/unkn0wn-root/mentionpad/internal/watcher"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	envDebug        = "MENTIONPAD_DEBUG"
	shutdownTimeout = 5 * time.Second
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mentionpad: %v\n", err)
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Printf("mentionpad %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if closeLog := setupDebugLog(); closeLog != nil {
		defer closeLog()
	}

	settings, handle, err := config.LoadSettings()
	if err != nil {
		if opts.initSettings {
			fmt.Fprintf(os.Stderr, "mentionpad: %v\n", err)
			os.Exit(1)
		}
		log.Printf("settings load error: %v", err)
		settings = config.Normalise(config.Settings{})
	}
	if opts.initSettings {
		if err := config.SaveSettings(settings, handle); err != nil {
			fmt.Fprintf(os.Stderr, "mentionpad: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("settings written to %s\n", handle.Path)
		os.Exit(0)
	}
	opts.applySettings(settings.Source)
	opts.telemetry.Version = version

	if err := run(opts, settings); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, settings config.Settings) error {
	provider, err := telemetry.New(opts.telemetry)
	if err != nil {
		if opts.telemetry.Enabled() {
			log.Printf("telemetry init error: %v", err)
		}
		provider = telemetry.Noop()
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil {
			log.Printf("telemetry shutdown: %v", shutdownErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.serveAddr != "" {
		return serve(ctx, opts, settings, provider)
	}
	return compose(ctx, opts, settings, provider)
}

// setupDebugLog sends log output to mentionpad.log while the terminal is
// owned by the composer. It is a no-op unless MENTIONPAD_DEBUG is set.
func setupDebugLog() func() {
	if strings.TrimSpace(os.Getenv(envDebug)) == "" {
		return nil
	}
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("debug log dir: %v", err)
		return nil
	}
	f, err := tea.LogToFile(path, "mentionpad")
	if err != nil {
		log.Printf("debug log: %v", err)
		return nil
	}
	return func() { _ = f.Close() }
}

func compose(
	ctx context.Context,
	opts options,
	settings config.Settings,
	provider telemetry.Instrumenter,
) error {
	cfg := ui.Config{
		Mention:    settings.Mention,
		Telemetry:  provider,
		TimeFormat: opts.timeFormat,
		Version:    version,
	}

	bindingMap, err := bindings.Load(config.Dir())
	if err != nil {
		log.Printf("bindings load error: %v", err)
		bindingMap = bindings.DefaultMap()
	}
	cfg.Bindings = bindingMap

	catalog, err := theme.LoadCatalog([]string{config.ThemesDir()})
	if err != nil {
		log.Printf("theme load error: %v", err)
	}
	def, ok := catalog.Resolve(settings.DefaultTheme)
	if !ok && settings.DefaultTheme != "" {
		log.Printf(
			"theme %q not found (available: %s); using default",
			settings.DefaultTheme,
			strings.Join(catalog.Keys(), ", "),
		)
	}
	cfg.Theme = def.Theme

	store := history.NewStore(config.HistoryPath(), settings.History.MaxEntries)
	cfg.History = store

	if opts.relayURL != "" {
		client, err := relay.Dial(ctx, opts.relayURL, relay.DialOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		cfg.Relay = client
	} else {
		dir, err := openDirectory(ctx, opts.roster, opts.database)
		if err != nil {
			return err
		}
		defer func() { _ = dir.Close() }()
		cfg.Directory = dir
		if opts.roster != "" {
			w := watcher.New(watcher.Options{})
			if err := w.Track(opts.roster); err != nil {
				log.Printf("roster watch: %v", err)
			} else {
				w.Start()
				defer w.Stop()
				cfg.RosterWatcher = w
				cfg.ReloadRoster = rosterReloader(ctx, dir)
			}
		}
	}

	program := tea.NewProgram(ui.New(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func serve(
	ctx context.Context,
	opts options,
	settings config.Settings,
	provider telemetry.Instrumenter,
) error {
	dir, err := openDirectory(ctx, opts.roster, opts.database)
	if err != nil {
		return err
	}
	defer func() { _ = dir.Close() }()

	store := history.NewStore(
		filepath.Join(config.Dir(), "relay-history.json"),
		settings.History.MaxEntries,
	)
	if err := store.Load(); err != nil {
		log.Printf("relay history load error: %v", err)
	}

	srv := &http.Server{
		Addr: opts.serveAddr,
		Handler: &relay.Server{
			Directory: dir,
			Limit:     settings.Mention.ListLimit,
			Telemetry: provider,
			OnMessage: func(_ context.Context, message string, at time.Time) error {
				_, err := store.Record(message, at, "relay")
				return err
			},
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("relay listening on %s", opts.serveAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
