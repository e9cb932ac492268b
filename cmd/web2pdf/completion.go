package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // enum values
	FileGlob string   // comma separated, e.g. "*.yaml,*.yml"
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// completionMeta adds what the FlagSet cannot express. Names, types and
// descriptions come from newConvertFlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

var flagCompletionMeta = map[string]completionMeta{
	"page-size":       {Values: []string{"a4", "a3", "a5", "letter", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"engine":          {Values: []string{"wkhtmltopdf", "chrome"}},
	"order":           {Values: []string{"path", "nav"}},
	"highlight-style": {Values: []string{"github", "monokai", "dracula", "solarized-light", "vs"}},

	"config":  {FileGlob: "*.yaml,*.yml"},
	"output":  {FileGlob: "*.pdf"},
	"preface": {FileGlob: "*.md,*.markdown"},

	"asset-path": {IsDir: true},
}

// completionShells lists the values accepted by "web2pdf completion".
var completionShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// extractFlagsFromFlagSet turns fs into flag definitions enriched with
// flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint":
			fd.Type = flagInt
		case "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:  "convert",
			Desc:  "Mirror a site and print it as one PDF",
			Flags: extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
		},
		{
			Name:  "doctor",
			Desc:  "Check external tools and the environment",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print the report as JSON"}},
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()

	var script string
	switch shell {
	case ShellBash:
		script = bashScript(cmds)
	case ShellZsh:
		script = zshScript(cmds)
	case ShellFish:
		script = fishScript(cmds)
	case ShellPowerShell:
		script = powerShellScript(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(completionShells, ", "))
	}

	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(web2pdf completion bash)\" in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(web2pdf completion zsh)\" in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        web2pdf completion fish > ~/.config/fish/completions/web2pdf.fish")
	fmt.Fprintln(w, "  PowerShell:  web2pdf completion powershell | Out-String | Invoke-Expression")
}

// ---------------------------------------------------------------------------
// Script generators
// ---------------------------------------------------------------------------

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// flagWords lists every spelling of the flags, long forms first.
func flagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
	}
	for _, f := range flags {
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

func flagPattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

func bashScript(cmds []commandDef) string {
	convert := cmds[0].Flags

	var b strings.Builder
	b.WriteString("# bash completion for web2pdf\n\n")
	b.WriteString("_web2pdf_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, f := range convert {
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            return ;;\n",
				flagPattern(f), strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -f -- \"$cur\"))\n            return ;;\n", flagPattern(f))
		case flagDir:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -d -- \"$cur\"))\n            return ;;\n", flagPattern(f))
		case flagString, flagInt, flagFloat:
			fmt.Fprintf(&b, "        %s)\n            return ;;\n", flagPattern(f))
		}
	}
	b.WriteString("    esac\n\n")

	fmt.Fprintf(&b, "    if [[ $COMP_CWORD -eq 1 && \"$cur\" != -* ]]; then\n        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n        return\n    fi\n\n",
		commandNames(cmds))

	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	fmt.Fprintf(&b, "        completion)\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            return ;;\n",
		strings.Join(completionShells, " "))
	fmt.Fprintf(&b, "        doctor)\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            return ;;\n",
		flagWords(cmds[1].Flags))
	b.WriteString("        version|help)\n            return ;;\n")
	b.WriteString("    esac\n\n")

	fmt.Fprintf(&b, "    if [[ \"$cur\" == -* ]]; then\n        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n    fi\n",
		flagWords(convert))
	b.WriteString("}\n\n")
	b.WriteString("complete -F _web2pdf_completions web2pdf\n")
	return b.String()
}

var zshEscaper = strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)

// zshGlob converts "*.yaml,*.yml" to "*.(yaml|yml)".
func zshGlob(glob string) string {
	parts := strings.Split(glob, ",")
	for i, p := range parts {
		parts[i] = strings.TrimPrefix(p, "*.")
	}
	return "*.(" + strings.Join(parts, "|") + ")"
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		return `:file:_files -g "` + zshGlob(f.FileGlob) + `"`
	case flagDir:
		return ":directory:_directories"
	default:
		return ":value:"
	}
}

func zshSpecs(flags []flagDef) []string {
	var specs []string
	for _, f := range flags {
		desc := zshEscaper.Replace(f.Desc)
		action := zshAction(f)
		specs = append(specs, fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action))
		if f.Short != "" {
			specs = append(specs, fmt.Sprintf("'-%s[%s]%s'", f.Short, desc, action))
		}
	}
	return specs
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef web2pdf\n\n")
	b.WriteString("_web2pdf() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )) && [[ $words[2] != -* ]]; then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        _urls\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case $words[2] in\n")
	fmt.Fprintf(&b, "        doctor)\n            _arguments %s ;;\n", strings.Join(zshSpecs(cmds[1].Flags), " "))
	fmt.Fprintf(&b, "        completion)\n            _arguments '1:shell:(%s)' ;;\n", strings.Join(completionShells, " "))
	b.WriteString("        version|help)\n            ;;\n")
	b.WriteString("        *)\n            _arguments -s \\\n")
	for _, s := range zshSpecs(cmds[0].Flags) {
		fmt.Fprintf(&b, "                %s \\\n", s)
	}
	b.WriteString("                '*:url:_urls' ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _web2pdf web2pdf\n")
	return b.String()
}

var fishEscaper = strings.NewReplacer(`\`, `\\`, "'", `\'`)

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for web2pdf\n\n")
	b.WriteString("function __fish_web2pdf_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_web2pdf_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = $argv[1]\n")
	b.WriteString("end\n\n")

	b.WriteString("complete -c web2pdf -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c web2pdf -n __fish_web2pdf_needs_command -a %s -d '%s'\n", c.Name, fishEscaper.Replace(c.Desc))
	}
	b.WriteString("\n")

	// Conversion flags apply with or without the "convert" word.
	others := make([]string, 0, len(cmds)-1)
	for _, c := range cmds[1:] {
		others = append(others, c.Name)
	}
	cond := fmt.Sprintf("'not __fish_seen_subcommand_from %s'", strings.Join(others, " "))
	for _, f := range cmds[0].Flags {
		fmt.Fprintf(&b, "complete -c web2pdf -n %s -l %s", cond, f.Long)
		if f.Short != "" {
			fmt.Fprintf(&b, " -s %s", f.Short)
		}
		switch f.Type {
		case flagBool:
		case flagEnum:
			fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
		case flagFile:
			b.WriteString(" -r -F")
		case flagDir:
			b.WriteString(" -x -a '(__fish_complete_directories)'")
		default:
			b.WriteString(" -x")
		}
		fmt.Fprintf(&b, " -d '%s'\n", fishEscaper.Replace(f.Desc))
	}
	b.WriteString("\n")

	for _, f := range cmds[1].Flags {
		fmt.Fprintf(&b, "complete -c web2pdf -n '__fish_web2pdf_using_command doctor' -l %s -d '%s'\n", f.Long, fishEscaper.Replace(f.Desc))
	}
	fmt.Fprintf(&b, "complete -c web2pdf -n '__fish_web2pdf_using_command completion' -a '%s'\n", strings.Join(completionShells, " "))
	return b.String()
}

func powerShellList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + strings.ReplaceAll(w, "'", "''") + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func powerShellScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for web2pdf\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName web2pdf -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	fmt.Fprintf(&b, "    $commands = %s\n", powerShellList(strings.Fields(commandNames(cmds))))
	fmt.Fprintf(&b, "    $flags = %s\n\n", powerShellList(strings.Fields(flagWords(cmds[0].Flags))))
	b.WriteString("    $candidates = if ($wordToComplete -like '-*') { $flags } else { $commands }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}
