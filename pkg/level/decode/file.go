package decode

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
)

// File reads the level at path, choosing a decoder by extension.
// Unknown extensions are tried as binary maps.
func File(path string) (*level.Element, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "level %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read level %s", path)
	}
	return Bytes(data, filepath.Ext(path))
}

// Bytes decodes data using the reader registered for ext (".bin", ".yaml",
// ".yml", ".xml").
func Bytes(data []byte, ext string) (*level.Element, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return YAML(r)
	case ".xml":
		return XML(r)
	default:
		return Binary(r)
	}
}
