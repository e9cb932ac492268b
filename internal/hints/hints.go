// Package hints builds actionable suffixes for fatal error messages.
// Every hint has the form "\n  hint: <text>".
package hints

import "strings"

// BrowserEnv describes the environment the chrome engine ran in. The
// caller collects it, so this package never reads the process state.
type BrowserEnv struct {
	CI         bool   // a CI service variable is set
	Container  bool   // running inside Docker, Podman or Kubernetes
	NoSandbox  bool   // ROD_NO_SANDBOX=1
	BrowserBin string // ROD_BROWSER_BIN
}

// installCommands maps external tools to a typical install command.
var installCommands = map[string]string{
	"httrack":     "apt install httrack (or brew install httrack)",
	"wkhtmltopdf": "install the patched-Qt build from wkhtmltopdf.org",
}

// ForToolNotFound suggests how to install a missing external tool and which
// variable overrides its location.
func ForToolNotFound(tool, envVar string) string {
	var parts []string
	if cmd, ok := installCommands[tool]; ok {
		parts = append(parts, cmd)
	}
	if envVar != "" {
		parts = append(parts, "or set "+envVar+" to its path")
	}
	if len(parts) == 0 {
		return ""
	}
	return format(strings.Join(parts, " "))
}

// ForBrowserConnect returns hints for the chrome engine failing to start.
func ForBrowserConnect(env BrowserEnv) string {
	var hints []string

	if (env.CI || env.Container) && !env.NoSandbox {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if env.BrowserBin == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForTimeout suggests raising the deadline for large sites.
func ForTimeout() string {
	return format("large sites take a while; raise --timeout or leave it unset")
}

// ForMissingSnapshot explains where --skip-download looked.
func ForMissingSnapshot(dir string) string {
	return format("run once without --skip-download, or set DOWNLOAD_DIR so that " + dir + " holds the mirror")
}

// ForConfigNotFound points at --config and the per-user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/go-web2pdf") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check that OUTPUT_DIR exists or can be created and is writable")
}

// ForStyleNotFound lists the styles that exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
