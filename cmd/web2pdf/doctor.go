package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

// versionTimeout bounds each "--version" probe.
const versionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string     `json:"status"` // "ready", "warnings", "errors"
	HTTrack     toolInfo   `json:"httrack"`
	Wkhtmltopdf toolInfo   `json:"wkhtmltopdf"`
	Chrome      chromeInfo `json:"chrome"`
	Env         envInfo    `json:"environment"`
	System      systemInfo `json:"system"`
	Warnings    []string   `json:"warnings,omitempty"`
	Errors      []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for an external executable.
type toolInfo struct {
	Found    bool   `json:"found"`
	Required bool   `json:"required"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	toolInfo
	Sandbox bool `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Engine        string `json:"engine"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// probe locates executables and reads their versions. Replaced in tests.
type probe struct {
	lookPath    func(file string) (string, error)
	chromePath  func() (string, bool)
	version     func(path string, args ...string) (string, error)
	getenv      func(key string) string
	tempDir     func() string
	isContainer func() (bool, string)
}

func defaultProbe(getenv func(string) string) probe {
	return probe{
		lookPath:   exec.LookPath,
		chromePath: launcher.LookPath,
		version:    toolVersion,
		getenv:     getenv,
		tempDir:    os.TempDir,
		isContainer: func() (bool, string) {
			return isContainer(getenv)
		},
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	return runDoctorWith(args, env, defaultProbe(env.Getenv))
}

func runDoctorWith(args []string, env *Environment, p probe) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(p)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(p probe) *doctorResult {
	engine := strings.ToLower(p.getenv("WEB2PDF_ENGINE"))
	if engine == "" {
		engine = "wkhtmltopdf"
	}
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Engine:     engine,
			NoSandbox:  p.getenv("ROD_NO_SANDBOX"),
			BrowserBin: p.getenv("ROD_BROWSER_BIN"),
		},
	}

	result.HTTrack = checkTool(result, p, "httrack", "WEB2PDF_HTTRACK_BIN", true, "--version")
	result.Wkhtmltopdf = checkTool(result, p, "wkhtmltopdf", "WEB2PDF_WKHTMLTOPDF_BIN", engine == "wkhtmltopdf", "--version")
	result.Chrome.Required = engine == "chrome"
	checkChrome(result, p, result.Chrome.Required)
	checkEnvironment(result, p)
	checkSystem(result, p)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTool locates name, honoring the envVar override. A missing tool is an
// error when required and a warning otherwise.
func checkTool(result *doctorResult, p probe, name, envVar string, required bool, versionArgs ...string) toolInfo {
	bin := p.getenv(envVar)
	if bin == "" {
		bin = name
	}

	path, err := p.lookPath(bin)
	if err != nil {
		msg := fmt.Sprintf("%s not found. Install it or set %s", name, envVar)
		if required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
		return toolInfo{Required: required}
	}

	info := toolInfo{Found: true, Required: required, Path: path}
	if v, err := p.version(path, versionArgs...); err == nil {
		info.Version = v
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get %s version: %v", name, err))
	}
	return info
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult, p probe, required bool) {
	chromePath := result.Env.BrowserBin

	report := func(msg string) {
		if required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}

	if chromePath == "" {
		// Use rod's launcher to locate Chrome
		var found bool
		chromePath, found = p.chromePath()
		if !found {
			report("Chrome/Chromium not found (needed for --engine chrome). Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	// Verify it exists
	if _, err := p.lookPath(chromePath); err != nil {
		report(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	if v, err := p.version(chromePath, "--version"); err == nil {
		result.Chrome.Version = v
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	// Sandbox status: disabled if ROD_NO_SANDBOX=1
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, p probe) {
	result.Env.Container, result.Env.ContainerHint = p.isContainer()

	result.Env.CI = inCI(p.getenv)

	// The sandbox only matters for the chrome engine.
	if result.Env.Engine == "chrome" && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	// Explicit override (highest priority)
	if getenv("WEB2PDF_CONTAINER") == "1" {
		return true, "WEB2PDF_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult, p probe) {
	// Check temp directory is writable
	tmpDir := p.tempDir()
	testFile := filepath.Join(tmpDir, "web2pdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// toolVersion runs "path args..." and returns the first output line.
func toolVersion(path string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, args...).CombinedOutput() // #nosec G204 -- path comes from PATH lookup or the user's env
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "web2pdf doctor")
	fmt.Fprintln(w)

	printTool(w, "HTTrack", r.HTTrack)
	printTool(w, "wkhtmltopdf", r.Wkhtmltopdf)

	// Chrome section
	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else if r.Chrome.Required {
		fmt.Fprintln(w, "  [ERROR] Not found")
	} else {
		fmt.Fprintln(w, "  [WARN] Not found (only needed for --engine chrome)")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Engine: %s\n", r.Env.Engine)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printTool(w io.Writer, name string, t toolInfo) {
	fmt.Fprintln(w, name)
	if t.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", t.Path)
		if t.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", t.Version)
		}
	} else if t.Required {
		fmt.Fprintln(w, "  [ERROR] Not found")
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)
}
