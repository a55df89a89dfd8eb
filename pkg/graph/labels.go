package graph

import (
	"strconv"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
)

// Reserved labels. Neither collides with a chapter number or warp word.
const (
	SpawnLabel = "↺"
	DoorLabel  = "♥"
)

// Alphabet is the symbol set warp labels are built from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// AlphabetWord returns the n-th word (0-based) over [Alphabet] in shortlex
// order: A, B, ..., Z, AA, AB, ..., ZZ, AAA, ...
func AlphabetWord(n int) string {
	const k = len(Alphabet)
	if n < 0 {
		return ""
	}
	// Bijective base-k numeration of n+1.
	var buf []byte
	for n++; n > 0; n = (n - 1) / k {
		buf = append(buf, Alphabet[(n-1)%k])
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ChapterLabel returns the label of the i-th chapter (0-based).
func ChapterLabel(i int) string {
	return strconv.Itoa(i + 1)
}

// WarpLabel returns the label of the i-th warp (0-based). Warps start at the
// second word, so the first warp is "B".
func WarpLabel(i int) string {
	return AlphabetWord(i + 1)
}

// BuildNodeMap extracts every anchor of the level and returns their labels
// mapped to export-space positions. It fails with MISSING_DATA when the level
// has no rooms, the start room has no player, or a chapter or warp has no id.
func BuildNodeMap(root *level.Element, m *level.Map) (nodemap.NodeMap, error) {
	start, err := StartRoom(root, m)
	if err != nil {
		return nil, err
	}
	spawn, err := DefaultSpawn(start)
	if err != nil {
		return nil, err
	}
	chapters, err := Chapters(m)
	if err != nil {
		return nil, err
	}
	warps, err := Warps(m)
	if err != nil {
		return nil, err
	}

	nm := make(nodemap.NodeMap, len(chapters)+len(warps)+2)
	put := func(label string, a Anchor) error {
		if _, dup := nm[label]; dup {
			return errors.New(errors.ErrCodeInternal, "label %q assigned twice", label)
		}
		p := ToExportSpace(a.Position, a.Room, m)
		nm[label] = nodemap.Position{p.X, p.Y}
		return nil
	}

	if err := put(SpawnLabel, spawn); err != nil {
		return nil, err
	}
	for i, a := range chapters {
		if err := put(ChapterLabel(i), a); err != nil {
			return nil, err
		}
	}
	for i, a := range warps {
		if err := put(WarpLabel(i), a); err != nil {
			return nil, err
		}
	}
	if door, ok := FindDoor(m); ok {
		if err := put(DoorLabel, door); err != nil {
			return nil, err
		}
	}
	return nm, nil
}
