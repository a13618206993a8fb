package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textprobe <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  extract    Count text fragments in a markdown directory")
	fmt.Fprintln(w, "  tag        Tag dataset records with a taxonomy and preview them")
	fmt.Fprintln(w, "  cache      Inspect or clear the dataset cache")
	fmt.Fprintln(w, "  doctor     Check endpoint, cache, and environment")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'textprobe help <command>' for details on a specific command.")
}

// printExtractUsage prints usage for the extract command.
func printExtractUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textprobe extract [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every file of a directory as markdown, collect the text nodes")
	fmt.Fprintln(w, "of the resulting HTML, and print how many remain after filtering.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Directory to scan (default: ./md or extract.dir from config)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extraction:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --filter <s>          Fragment filter: newline (drop \"\\n\"), blank (drop whitespace)")
	fmt.Fprintln(w, "      --highlight           Split code blocks into highlighted tokens")
	fmt.Fprintln(w, "      --markdown-only       Skip files without .md/.markdown extension")
	fmt.Fprintln(w, "  -r, --recursive           Descend into subdirectories")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printTagUsage prints usage for the tag command.
func printTagUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textprobe tag [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load a dataset split, add one boolean column per taxonomy category,")
	fmt.Fprintln(w, "and print the first rows of the tagged table.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "      --dataset <s>         Dataset name on the hub (default: imdb)")
	fmt.Fprintln(w, "      --subset <s>          Dataset subset (default: first with the split)")
	fmt.Fprintln(w, "      --split <s>           Dataset split (default: train)")
	fmt.Fprintln(w, "      --limit <n>           Rows to load (0 = whole split)")
	fmt.Fprintln(w, "      --from <path>         Read records from a JSON Lines file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tagging:")
	fmt.Fprintln(w, "      --column <s>          Text column to tag (default: text)")
	fmt.Fprintln(w, "      --taxonomy <s>        Taxonomy name (default: pronouns)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintln(w, "      --head <n>            Rows to preview (default: 5)")
	fmt.Fprintln(w, "      --width <n>           Max cell width (default: 48)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Network:")
	fmt.Fprintln(w, "      --endpoint <url>      Datasets-server base URL")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-request timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --no-cache            Bypass the local dataset cache")
	fmt.Fprintln(w, "      --cache-dir <path>    Dataset cache directory")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TEXTPROBE_ENDPOINT, TEXTPROBE_TIMEOUT, TEXTPROBE_CACHE_DIR, HF_TOKEN")
}

// printCommonUsage prints the flags every command shares.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printCacheUsage prints usage for the cache command.
func printCacheUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textprobe cache <list|clear>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Inspect or clear the local dataset cache.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  list    Show cached splits and how many rows each holds")
	fmt.Fprintln(w, "  clear   Remove every cached split")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textprobe doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the datasets-server endpoint, the cache directory, and the environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --offline             Skip the endpoint reachability check")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "extract":
		printExtractUsage(env.Stdout)
	case "tag":
		printTagUsage(env.Stdout)
	case "cache":
		printCacheUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: textprobe version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: textprobe help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
