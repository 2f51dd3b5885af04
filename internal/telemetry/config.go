package telemetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

const (
	envEndpoint    = "MENTIONPAD_OTEL_ENDPOINT"
	envInsecure    = "MENTIONPAD_OTEL_INSECURE"
	envService     = "MENTIONPAD_OTEL_SERVICE"
	envHeaders     = "MENTIONPAD_OTEL_HEADERS"
	envDialTimeout = "MENTIONPAD_OTEL_DIAL_TIMEOUT"

	DefaultServiceName = "mentionpad"
)

type Config struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
	Version     string
	DialTimeout time.Duration
	Headers     map[string]string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// ConfigFromEnv reads MENTIONPAD_OTEL_* through lookup (os.Getenv in the
// binary). Malformed values fall back to defaults.
func ConfigFromEnv(lookup func(string) string) Config {
	if lookup == nil {
		return Config{ServiceName: DefaultServiceName}
	}
	cfg := Config{
		Endpoint:    strings.TrimSpace(lookup(envEndpoint)),
		ServiceName: strings.TrimSpace(lookup(envService)),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(lookup(envInsecure))); err == nil {
		cfg.Insecure = v
	}
	if d, err := time.ParseDuration(strings.TrimSpace(lookup(envDialTimeout))); err == nil && d > 0 {
		cfg.DialTimeout = d
	}
	if headers, err := ParseHeaders(lookup(envHeaders)); err == nil {
		cfg.Headers = headers
	}
	return cfg
}

// ParseHeaders parses "k=v, k2=v2". Blank input yields nil.
func ParseHeaders(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errdef.New(errdef.CodeConfig, "invalid header %q", part)
		}
		out[key] = strings.TrimSpace(value)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
