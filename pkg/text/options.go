package text

import (
	"image/color"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// Alignment positions lines horizontally within the layout width.
type Alignment int

const (
	// AlignStart aligns to the leading edge of the paragraph direction.
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	// AlignJustify stretches wrapped lines to the full width at their
	// spaces. Last lines of a paragraph are start-aligned.
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignJustify:
		return "justify"
	}
	return "unknown"
}

// ParseAlignment parses an alignment name as printed by String.
func ParseAlignment(s string) (Alignment, error) {
	for a := AlignStart; a <= AlignJustify; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return AlignStart, errors.New(errors.ErrCodeInvalidInput, "unknown alignment %q", s)
}

// Default option values.
const (
	DefaultFontSize   float32 = 16
	DefaultScale      float32 = 1
	DefaultLineHeight float32 = 1
)

// Options controls one layout.
type Options struct {
	FontSize   float32     // em size in pixels before scaling
	MaxWidth   float32     // wrap width in scaled pixels; 0 means unbounded
	Align      Alignment   // horizontal alignment
	Scale      float32     // display scale applied to every length
	LineHeight float32     // line box height as a multiple of the scaled font size
	Brush      color.NRGBA // carried through to every glyph run
}

// SetDefaults fills zero fields with their default values.
func (o *Options) SetDefaults() {
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.LineHeight == 0 {
		o.LineHeight = DefaultLineHeight
	}
}

// Validate checks the options for values no layout can satisfy.
func (o *Options) Validate() error {
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %v", o.FontSize)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if o.LineHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "line height must be positive, got %v", o.LineHeight)
	}
	if o.MaxWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max width must not be negative, got %v", o.MaxWidth)
	}
	if o.Align < AlignStart || o.Align > AlignJustify {
		return errors.New(errors.ErrCodeInvalidInput, "unknown alignment %d", o.Align)
	}
	return nil
}
