package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	if hasVerboseFlag(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// hasVerboseFlag reports whether -v or --verbose appears before any "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	switch arg {
	case "extract", "tag", "cache", "doctor", "completion", "version", "help":
		return true
	}
	return false
}

// runMain dispatches to a subcommand and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if cmd == "-h" || cmd == "--help" {
		cmd = "help"
	}
	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "extract":
		err = runExtract(ctx, rest, env)
	case "tag":
		err = runTag(ctx, rest, env)
	case "cache":
		err = runCache(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "textprobe %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
