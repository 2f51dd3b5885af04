package directory

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

type rosterFile struct {
	Members []Member `yaml:"members"`
}

// LoadRoster reads a YAML roster:
//
//	members:
//	  - name: Ada Lovelace
//	    handle: ada
//	    aliases: [Countess]
func LoadRoster(path string) ([]Member, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read roster %q", path)
	}
	return ParseRoster(data)
}

func ParseRoster(data []byte) ([]Member, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file rosterFile
	if err := dec.Decode(&file); err != nil {
		return nil, errdef.Wrap(errdef.CodeDirectory, err, "parse roster")
	}
	return normalizeMembers(file.Members)
}

// MarshalRoster is the inverse of ParseRoster.
func MarshalRoster(members []Member) ([]byte, error) {
	data, err := yaml.Marshal(rosterFile{Members: members})
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeDirectory, err, "encode roster")
	}
	return data, nil
}
