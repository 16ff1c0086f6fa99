package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// command is one batch subcommand.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, s *session, files []FileToProcess) error
}

// commands lists the batch subcommands in help order.
var commands = []command{
	{name: "fmt", summary: "Normalize markdown files", run: runFmt},
	{name: "check", summary: "Verify formatting is stable", run: runCheck},
	{name: "tree", summary: "Print the parsed document tree", run: runTree},
	{name: "html", summary: "Render an HTML preview", run: runHTML},
}

func main() {
	// Configure GOMAXPROCS before the worker pool is sized.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[1], args[2:]
	switch name {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mddoc %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	}

	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", name)
		printUsage(env.Stderr)
		return ExitUsage
	}

	flags, paths, err := parseFlags(name, rest, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr, env.environ())

	ctx, stop := notifyContext(context.Background())
	defer stop()

	s, err := newSession(name, flags, env)
	if err == nil {
		err = runCommand(ctx, cmd, s, paths)
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, s.config()))
	}
	return exitCodeFor(err)
}

// runCommand resolves inputs and runs cmd over them.
func runCommand(ctx context.Context, cmd command, s *session, paths []string) error {
	files, err := s.inputs(paths)
	if err != nil {
		return err
	}
	return cmd.run(ctx, s, files)
}

// isCommand reports whether name is a known command.
func isCommand(name string) bool {
	_, ok := lookupCommand(name)
	return ok || name == "version" || name == "help"
}

func lookupCommand(name string) (command, bool) {
	i := slices.IndexFunc(commands, func(c command) bool { return c.name == name })
	if i < 0 {
		return command{}, false
	}
	return commands[i], true
}

// wantsVerbose scans raw args for the verbose flag before parsing.
func wantsVerbose(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}

// notifyContext returns a context that is canceled when an interrupt
// or termination signal is received. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
