package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
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
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	Args      []string // fixed positional words, e.g. cache subcommands
	TakesDirs bool     // accepts a directory argument
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"filter":   {Values: []string{"newline", "blank"}},
	"taxonomy": {Values: []string{"pronouns"}},

	"config": {FileGlob: "*.yaml,*.yml"},
	"from":   {FileGlob: "*.jsonl"},

	"cache-dir": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint":
			fd.Type = flagInt
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
// Flags come from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:      "extract",
			Desc:      "Count text fragments in a markdown directory",
			Flags:     extractFlagsFromFlagSet(newExtractFlagSet(&extractFlags{})),
			TakesDirs: true,
		},
		{
			Name:  "tag",
			Desc:  "Tag dataset records with a taxonomy and preview them",
			Flags: extractFlagsFromFlagSet(newTagFlagSet(&tagFlags{})),
		},
		{
			Name: "cache",
			Desc: "Inspect or clear the dataset cache",
			Args: []string{"list", "clear"},
		},
		{
			Name: "doctor",
			Desc: "Check endpoint, cache, and environment",
			Flags: []flagDef{
				{Long: "json", Type: flagBool, Desc: "print results as JSON"},
				{Long: "offline", Type: flagBool, Desc: "skip the endpoint reachability check"},
				{Long: "config", Short: "c", Type: flagFile, FileGlob: "*.yaml,*.yml", Desc: "config file name or path"},
			},
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script", Args: []string{"bash", "zsh", "fish"}},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// commandNames lists command names in registry order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords lists every spelling of the command's flags.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for textprobe\n\n")
	b.WriteString("_textprobe_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	// Values for flags that take a typed argument.
	b.WriteString("    case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] {
				continue
			}
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				seen[f.Long] = true
				fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n            return\n            ;;\n",
					pattern, strings.Join(f.Values, " "))
			case flagFile:
				seen[f.Long] = true
				fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -f -- \"$cur\"))\n            return\n            ;;\n", pattern)
			case flagDir:
				seen[f.Long] = true
				fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -d -- \"$cur\"))\n            return\n            ;;\n", pattern)
			}
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		words := append(flagWords(c.Flags), c.Args...)
		if len(words) == 0 && !c.TakesDirs {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		if c.TakesDirs {
			b.WriteString("            if [[ \"$cur\" != -* ]]; then\n")
			b.WriteString("                COMPREPLY=($(compgen -d -- \"$cur\"))\n")
			b.WriteString("                return\n")
			b.WriteString("            fi\n")
		}
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _textprobe_completions textprobe\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshQuote escapes a description for use inside a single-quoted zsh spec.
func zshQuote(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	return strings.ReplaceAll(s, "]", "\\]")
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef textprobe\n\n")
	b.WriteString("_textprobe() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesDirs {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagEnum:
				action = ":value:(" + strings.Join(f.Values, " ") + ")"
			case flagFile:
				globs := strings.Split(f.FileGlob, ",")
				action = ":file:_files -g '" + strings.Join(globs, " ") + "'"
			case flagDir:
				action = ":directory:_files -/"
			case flagString, flagInt:
				action = ":value:"
			}
			desc := zshQuote(f.Desc)
			if f.Short != "" {
				fmt.Fprintf(&b, "                '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
			} else {
				fmt.Fprintf(&b, "                '--%s[%s]%s' \\\n", f.Long, desc, action)
			}
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "                '1:argument:(%s)'\n", strings.Join(c.Args, " "))
		case c.TakesDirs:
			b.WriteString("                '1:directory:_files -/'\n")
		default:
			b.WriteString("                '*::'\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_textprobe \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for textprobe\n\n")
	b.WriteString("function __fish_textprobe_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_textprobe_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c textprobe -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c textprobe -n __fish_textprobe_needs_command -a %s -d '%s'\n", c.Name, c.Desc)
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := "'__fish_textprobe_using_command " + c.Name + "'"
		for _, f := range c.Flags {
			line := "complete -c textprobe -n " + cond + " -l " + f.Long
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			line += " -d '" + strings.ReplaceAll(f.Desc, "'", "\\'") + "'"
			b.WriteString(line + "\n")
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c textprobe -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		if c.TakesDirs {
			fmt.Fprintf(&b, "complete -c textprobe -n %s -x -a '(__fish_complete_directories)'\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
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

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textprobe completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(textprobe completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(textprobe completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    textprobe completion fish > ~/.config/fish/completions/textprobe.fish")
}
