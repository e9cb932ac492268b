package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf [flags] <url>")
	fmt.Fprintln(w, "       web2pdf <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mirror a website and print it as a single PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  doctor     Check external tools and the environment")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'web2pdf help convert' for all conversion flags.")
}

// printConvertUsage prints usage for a conversion.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf [flags] <url>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mirror <url> with httrack and print the pages as one PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run:")
	fmt.Fprintln(w, "  -o, --output <path>         Output PDF (bare names go to OUTPUT_DIR)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>           Overall deadline (e.g., 10m)")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel page workers")
	fmt.Fprintln(w, "      --skip-download         Reuse the snapshot under DOWNLOAD_DIR")
	fmt.Fprintln(w, "      --download-only         Stop after the download")
	fmt.Fprintln(w, "      --markdown              Also write <output>.md")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download:")
	fmt.Fprintln(w, "      --depth <n>             Mirror depth (default: 2)")
	fmt.Fprintln(w, "      --connections <n>       Parallel connections (default: 8)")
	fmt.Fprintln(w, "      --user-agent <s>        User agent sent by httrack")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>         Page size: a4, a3, a5, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>       Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <mm>           Margin in millimeters (0-80)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --engine <s>            wkhtmltopdf (default) or chrome")
	fmt.Fprintln(w, "      --no-site-styles        Drop the site's own stylesheets")
	fmt.Fprintln(w, "      --style <name>          Stylesheet name (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "      --order <s>             Page order after the root: path, nav")
	fmt.Fprintln(w, "      --keep-nav              Keep site navigation")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style for code blocks")
	fmt.Fprintln(w, "      --no-highlight          Disable code highlighting")
	fmt.Fprintln(w, "      --preface <file>        Markdown rendered before the pages")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc-title <s>         TOC heading text")
	fmt.Fprintln(w, "      --toc-outline           Also add the engine's outline page")
	fmt.Fprintln(w, "      --no-toc                Disable table of contents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cover and Footer:")
	fmt.Fprintln(w, "      --cover                 Add a cover block")
	fmt.Fprintln(w, "      --cover-title <s>       Cover title (\"\" = root page title)")
	fmt.Fprintln(w, "      --cover-date <s>        Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "      --footer-text <s>       Custom footer text")
	fmt.Fprintln(w, "      --no-page-number        Hide page numbers")
	fmt.Fprintln(w, "      --no-footer             Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "      --debug                 Keep working files and write debug/report.yaml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DOWNLOAD_DIR, OUTPUT_DIR, WEB2PDF_CONFIG, WEB2PDF_TIMEOUT, WEB2PDF_ENGINE,")
	fmt.Fprintln(w, "  WEB2PDF_STYLE, WEB2PDF_WORKERS, WEB2PDF_HTTRACK_BIN, WEB2PDF_WKHTMLTOPDF_BIN,")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: web2pdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check httrack, wkhtmltopdf, Chrome and the environment.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: web2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: web2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
