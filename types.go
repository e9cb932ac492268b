package web2pdf

import (
	"fmt"
	"strings"
)

// Page size constants.
const (
	PageSizeA3     = "a3"
	PageSizeA4     = "a4"
	PageSizeA5     = "a5"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimetres.
const (
	MinMargin     = 0.0
	MaxMargin     = 80.0
	DefaultMargin = 20.0
)

// paperSizes holds portrait width and height in millimetres.
var paperSizes = map[string][2]float64{
	PageSizeA3:     {297, 420},
	PageSizeA4:     {210, 297},
	PageSizeA5:     {148, 210},
	PageSizeLetter: {215.9, 279.4},
	PageSizeLegal:  {215.9, 355.6},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // a3, a4, a5, letter, legal
	Orientation string  // portrait, landscape
	Margin      float64 // millimetres, applied to all sides
}

// DefaultPageSettings returns A4 portrait with 20mm margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks size, orientation and margin. A nil receiver is valid.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q (must be a3, a4, a5, letter or legal)", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.1fmm (must be between %.0f and %.0f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Dimensions returns width and height in millimetres for the orientation.
func (p *PageSettings) Dimensions() (width, height float64) {
	dims, ok := paperSizes[strings.ToLower(p.Size)]
	if !ok {
		dims = paperSizes[PageSizeA4]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// Engine names a PDF renderer.
type Engine string

const (
	EngineWkhtmltopdf Engine = "wkhtmltopdf"
	EngineChrome      Engine = "chrome"
)

// ParseEngine parses an engine name; "" means EngineWkhtmltopdf.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case "", EngineWkhtmltopdf:
		return EngineWkhtmltopdf, nil
	case EngineChrome:
		return EngineChrome, nil
	default:
		return "", fmt.Errorf("%w: %q (must be wkhtmltopdf or chrome)", ErrInvalidEngine, s)
	}
}
