package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

const DefaultKey = "default"

type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceUser    Source = "user"
)

type Format string

const (
	FormatBuiltin Format = "builtin"
	FormatJSON    Format = "json"
	FormatTOML    Format = "toml"
)

type Definition struct {
	Key         string
	DisplayName string
	Metadata    Metadata
	Theme       Theme
	Source      Source
	Format      Format
	Path        string
}

// Catalog holds the builtin theme followed by user themes sorted by name.
type Catalog struct {
	order []Definition
	index map[string]int
}

func (c Catalog) Keys() []string {
	keys := make([]string, len(c.order))
	for i, def := range c.order {
		keys[i] = def.Key
	}
	return keys
}

func (c Catalog) Get(key string) (Definition, bool) {
	idx, ok := c.index[key]
	if !ok {
		return Definition{}, false
	}
	return c.order[idx], true
}

// Resolve returns the theme stored under key, or the builtin theme when the
// key is empty or unknown.
func (c Catalog) Resolve(key string) (Definition, bool) {
	if def, ok := c.Get(strings.TrimSpace(key)); ok {
		return def, true
	}
	if def, ok := c.Get(DefaultKey); ok {
		return def, false
	}
	return builtinDefinition(), false
}

func (c *Catalog) add(def Definition) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	c.index[def.Key] = len(c.order)
	c.order = append(c.order, def)
}

func builtinDefinition() Definition {
	return Definition{
		Key:         DefaultKey,
		DisplayName: "Default",
		Metadata:    Metadata{Name: "Default"},
		Theme:       DefaultTheme(),
		Source:      SourceBuiltin,
		Format:      FormatBuiltin,
	}
}

// LoadCatalog reads *.toml and *.json themes from dirs. Missing directories
// are skipped. A broken theme file does not stop the others from loading;
// all failures are joined into the returned error.
func LoadCatalog(dirs []string) (Catalog, error) {
	builtin := builtinDefinition()
	var custom []Definition
	used := map[string]int{DefaultKey: 1}
	var combined error

	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			combined = errors.Join(combined,
				errdef.Wrap(errdef.CodeFilesystem, err, "themes: read directory %q", dir))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			format, ok := formatFor(entry.Name())
			if !ok {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			def, err := loadUserTheme(path, format, builtin.Theme)
			if err != nil {
				combined = errors.Join(combined,
					errdef.Wrap(errdef.CodeConfig, err, "themes: load %q", path))
				continue
			}
			def.Key = uniqueKey(def.Key, used)
			if def.DisplayName == "" {
				def.DisplayName = humaniseSlug(def.Key)
			}
			custom = append(custom, def)
		}
	}

	sort.SliceStable(custom, func(i, j int) bool {
		left := strings.ToLower(custom[i].DisplayName)
		right := strings.ToLower(custom[j].DisplayName)
		if left == right {
			return custom[i].Key < custom[j].Key
		}
		return left < right
	})

	var catalog Catalog
	catalog.add(builtin)
	for _, def := range custom {
		catalog.add(def)
	}
	return catalog, combined
}

func formatFor(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return FormatTOML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

func loadUserTheme(path string, format Format, base Theme) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}
	spec, err := decodeThemeSpec(data, format)
	if err != nil {
		return Definition{}, err
	}
	th, err := ApplySpec(base, spec)
	if err != nil {
		return Definition{}, err
	}

	var meta Metadata
	if spec.Metadata != nil {
		meta = *spec.Metadata
	}
	slug := slugify(meta.Name)
	if slug == "" {
		slug = slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	return Definition{
		Key:         slug,
		DisplayName: strings.TrimSpace(meta.Name),
		Metadata:    meta,
		Theme:       th,
		Source:      SourceUser,
		Format:      format,
		Path:        path,
	}, nil
}

func decodeThemeSpec(data []byte, format Format) (ThemeSpec, error) {
	var spec ThemeSpec
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return ThemeSpec{}, err
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return ThemeSpec{}, err
		}
	default:
		return ThemeSpec{}, errdef.New(errdef.CodeConfig, "decode: unsupported format %q", format)
	}
	return spec, nil
}

func uniqueKey(candidate string, used map[string]int) string {
	base := candidate
	if base == "" {
		base = "theme"
	}
	n := used[base]
	if n == 0 {
		used[base] = 1
		return base
	}
	for {
		key := base + "-" + strconv.Itoa(n)
		n++
		if used[key] == 0 {
			used[base] = n
			used[key] = 1
			return key
		}
	}
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func humaniseSlug(slug string) string {
	if slug == "" {
		return "Theme"
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
