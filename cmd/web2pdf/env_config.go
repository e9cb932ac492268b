package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-web2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Directories
	DownloadDir string // DOWNLOAD_DIR: snapshot working directory root
	OutputDir   string // OUTPUT_DIR: directory for bare output names

	// Run
	ConfigPath string // WEB2PDF_CONFIG: config file name or path
	Timeout    string // WEB2PDF_TIMEOUT: overall deadline
	Engine     string // WEB2PDF_ENGINE: wkhtmltopdf or chrome
	Style      string // WEB2PDF_STYLE: stylesheet name
	Workers    int    // WEB2PDF_WORKERS: preprocessing workers

	// External tools
	HTTrackBin     string // WEB2PDF_HTTRACK_BIN: httrack executable
	WkhtmltopdfBin string // WEB2PDF_WKHTMLTOPDF_BIN: wkhtmltopdf executable
	BrowserBin     string // ROD_BROWSER_BIN: Chrome executable
	NoSandbox      bool   // ROD_NO_SANDBOX=1: disable the Chrome sandbox

	// Detected
	CI bool // any of ciEnvVars is set
}

// ciEnvVars are set by common CI services.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// inCI reports whether a CI service variable is set.
func inCI(getenv func(string) string) bool {
	for _, v := range ciEnvVars {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// knownEnvVars lists valid WEB2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WEB2PDF_CONFIG":          true,
	"WEB2PDF_TIMEOUT":         true,
	"WEB2PDF_ENGINE":          true,
	"WEB2PDF_STYLE":           true,
	"WEB2PDF_WORKERS":         true,
	"WEB2PDF_HTTRACK_BIN":     true,
	"WEB2PDF_WKHTMLTOPDF_BIN": true,
	"WEB2PDF_CONTAINER":       true, // read by the doctor command
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		DownloadDir:    getenv("DOWNLOAD_DIR"),
		OutputDir:      getenv("OUTPUT_DIR"),
		ConfigPath:     getenv("WEB2PDF_CONFIG"),
		Timeout:        getenv("WEB2PDF_TIMEOUT"),
		Engine:         getenv("WEB2PDF_ENGINE"),
		Style:          getenv("WEB2PDF_STYLE"),
		HTTrackBin:     getenv("WEB2PDF_HTTRACK_BIN"),
		WkhtmltopdfBin: getenv("WEB2PDF_WKHTMLTOPDF_BIN"),
		BrowserBin:     getenv("ROD_BROWSER_BIN"),
		NoSandbox:      getenv("ROD_NO_SANDBOX") == "1",
		CI:             inCI(getenv),
	}

	// Parse int for workers
	if workers := getenv("WEB2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized WEB2PDF_* variables.
// Helps catch typos like WEB2PDF_ENGIN instead of WEB2PDF_ENGINE.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "WEB2PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// A set variable replaces the config file value; CLI flags are applied
// later via mergeFlags, so: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.DownloadDir != "" {
		cfg.Download.Dir = env.DownloadDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Timeout != "" {
		cfg.Timeout = env.Timeout
	}
	if env.Engine != "" {
		cfg.Render.Engine = env.Engine
	}
	if env.Style != "" {
		cfg.Assets.Style = env.Style
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.HTTrackBin != "" {
		cfg.Download.Bin = env.HTTrackBin
	}
	if env.WkhtmltopdfBin != "" {
		cfg.Render.Bin = env.WkhtmltopdfBin
	}
}
