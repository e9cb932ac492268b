package main

import (
	"errors"
	"os"

	web2pdf "github.com/alnah/go-web2pdf"
	"github.com/alnah/go-web2pdf/internal/config"
)

// Exit codes for the web2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // Missing snapshot, write failures
	ExitDownload = 4 // httrack failed or produced nothing
	ExitRender   = 5 // wkhtmltopdf or Chrome failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Download errors (exit 4). Checked before I/O: a mirror without pages
	// also carries ErrMissingSnapshot.
	if errors.Is(err, web2pdf.ErrDownloadFailed) {
		return ExitDownload
	}

	// Render errors (exit 5)
	if errors.Is(err, web2pdf.ErrRenderFailed) ||
		errors.Is(err, web2pdf.ErrBrowserConnect) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, web2pdf.ErrMissingSnapshot) ||
		errors.Is(err, web2pdf.ErrNoPages) ||
		errors.Is(err, web2pdf.ErrWriteOutput) ||
		errors.Is(err, ErrReadPreface) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, web2pdf.ErrInvalidURL) ||
		errors.Is(err, web2pdf.ErrInvalidOutput) ||
		errors.Is(err, web2pdf.ErrInvalidPageSize) ||
		errors.Is(err, web2pdf.ErrInvalidOrientation) ||
		errors.Is(err, web2pdf.ErrInvalidMargin) ||
		errors.Is(err, web2pdf.ErrInvalidEngine) ||
		errors.Is(err, web2pdf.ErrInvalidOrder) ||
		errors.Is(err, web2pdf.ErrStyleNotFound) ||
		errors.Is(err, web2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
