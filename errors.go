package web2pdf

import (
	"errors"

	"github.com/alnah/go-web2pdf/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrInvalidURL      = errors.New("invalid site URL")
	ErrDownloadFailed  = errors.New("download failed")
	ErrMissingSnapshot = errors.New("missing snapshot")
	ErrNoPages         = errors.New("snapshot contains no HTML pages")
	ErrRenderFailed    = errors.New("render failed")
	ErrToolNotFound    = errors.New("external tool not found")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrInvalidOutput   = errors.New("invalid output path")
	ErrWriteOutput     = errors.New("failed to write output")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Option validation errors.
	ErrInvalidEngine = errors.New("invalid render engine")
	ErrInvalidOrder  = errors.New("invalid page order")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// ErrResourceNotFound marks a page reference whose target was not
// downloaded. It is reported in Result, never returned by Convert.
var ErrResourceNotFound = pipeline.ErrResourceNotFound
