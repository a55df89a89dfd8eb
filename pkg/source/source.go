package source

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// Installation is a game install directory.
type Installation struct {
	Path string
}

// ModsDir returns the directory holding installed mods.
func (i Installation) ModsDir() string {
	return filepath.Join(i.Path, "Mods")
}

// ModNames lists the names OpenMod accepts by file name: mod directories
// and archives without their .zip extension, sorted.
func (i Installation) ModNames() ([]string, error) {
	entries, err := os.ReadDir(i.ModsDir())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mods directory %s", i.ModsDir())
	}
	var names []string
	for _, e := range entries {
		switch {
		case e.IsDir():
			names = append(names, e.Name())
		case strings.EqualFold(filepath.Ext(e.Name()), ".zip"):
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Mod is an opened mod. Close releases the archive handle of zipped mods.
type Mod struct {
	Name     string    // name the mod was opened by
	Location string    // directory or archive path on disk
	Info     []ModInfo // manifest entries, nil when absent

	fsys   fs.FS
	closer io.Closer
}

// OpenMod finds a mod by file name (directory or .zip), falling back to a
// scan of every installed mod's manifest.
func (i Installation) OpenMod(name string) (*Mod, error) {
	if err := errors.ValidateModName(name); err != nil {
		return nil, err
	}
	mods := i.ModsDir()
	if _, err := os.Stat(mods); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mods directory %s", mods)
	}

	if st, err := os.Stat(filepath.Join(mods, name)); err == nil && st.IsDir() {
		return openDir(name, filepath.Join(mods, name))
	}
	if _, err := os.Stat(filepath.Join(mods, name+".zip")); err == nil {
		return openZip(name, filepath.Join(mods, name+".zip"))
	}

	entries, err := os.ReadDir(mods)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list %s", mods)
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Name() < entries[b].Name() })
	for _, e := range entries {
		loc := filepath.Join(mods, e.Name())
		var m *Mod
		switch {
		case e.IsDir():
			m, err = openDir(name, loc)
		case strings.EqualFold(filepath.Ext(e.Name()), ".zip"):
			m, err = openZip(name, loc)
		default:
			continue
		}
		if err != nil {
			// Unreadable neighbours do not hide the mod we are looking for.
			continue
		}
		if m.declares(name) {
			return m, nil
		}
		m.Close()
	}
	return nil, errors.New(errors.ErrCodeFileNotFound, "mod %q not found in %s", name, mods)
}

func openDir(name, dir string) (*Mod, error) {
	fsys := os.DirFS(dir)
	info, err := readManifest(fsys)
	if err != nil {
		return nil, err
	}
	return &Mod{Name: name, Location: dir, Info: info, fsys: fsys}, nil
}

func openZip(name, archive string) (*Mod, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, errors.Malformed(err, "open mod archive %s", archive)
	}
	info, err := readManifest(zr)
	if err != nil {
		zr.Close()
		return nil, err
	}
	return &Mod{Name: name, Location: archive, Info: info, fsys: zr, closer: zr}, nil
}

func (m *Mod) declares(name string) bool {
	for _, e := range m.Info {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ReadFile reads a slash-separated path relative to the mod root.
func (m *Mod) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(m.fsys, path.Clean(name))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s in mod %s", name, m.Name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s in mod %s", name, m.Name)
	}
	return data, nil
}

// MapPath returns the in-mod path of a map, e.g. "Lobbies/1" becomes
// "Maps/Lobbies/1.bin".
func MapPath(mapName string) string {
	return path.Join("Maps", mapName+".bin")
}

// ReadMap reads the binary map Maps/<mapName>.bin.
func (m *Mod) ReadMap(mapName string) ([]byte, error) {
	if err := errors.ValidateMapPath(mapName); err != nil {
		return nil, err
	}
	return m.ReadFile(MapPath(mapName))
}

// Close releases the mod. It is safe to call on directory mods.
func (m *Mod) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}
