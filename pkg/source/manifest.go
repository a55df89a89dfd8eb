package source

import (
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// ManifestFiles are the names checked for a mod manifest, in order.
var ManifestFiles = []string{"everest.yaml", "everest.yml"}

// Dependency is a mod a manifest entry depends on.
type Dependency struct {
	Name    string `yaml:"Name"`
	Version string `yaml:"Version"`
}

// ModInfo is one entry of an everest.yaml manifest.
type ModInfo struct {
	Name         string       `yaml:"Name"`
	Version      string       `yaml:"Version"`
	DLL          string       `yaml:"DLL,omitempty"`
	Dependencies []Dependency `yaml:"Dependencies,omitempty"`
}

// ParseManifest decodes an everest.yaml document. The file is a list of
// entries; most mods declare exactly one.
func ParseManifest(r io.Reader) ([]ModInfo, error) {
	var entries []ModInfo
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Malformed(err, "decode mod manifest")
	}
	return entries, nil
}

// readManifest loads the first manifest file found at the root of fsys.
// A mod without a manifest returns (nil, nil).
func readManifest(fsys fs.FS) ([]ModInfo, error) {
	for _, name := range ManifestFiles {
		f, err := fsys.Open(name)
		if err != nil {
			continue
		}
		entries, err := ParseManifest(f)
		f.Close()
		return entries, err
	}
	return nil, nil
}
