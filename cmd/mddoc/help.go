package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mddoc <command> [flags] [paths...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s  %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Paths may be files or directories. Without paths, markdown is read from stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mddoc help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Format:")
	fmt.Fprintln(w, "      --bullet <s>          Bullet list marker: -, *, +")
	fmt.Fprintln(w, "      --strip-reserved      Drop U+E000-U+E003 instead of failing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -j, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logging")
	fmt.Fprintln(w, "      --no-color            Disable colored output")
}

// printCommandUsage prints usage for one command.
func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case "fmt":
		fmt.Fprintln(w, "Usage: mddoc fmt [flags] [paths...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Normalize markdown by parsing and serializing it.")
		fmt.Fprintln(w, "Prints the result unless -w or -l is given.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Mode:")
		fmt.Fprintln(w, "  -w, --write               Rewrite files in place")
		fmt.Fprintln(w, "  -l, --list                List files whose formatting differs")
	case "check":
		fmt.Fprintln(w, "Usage: mddoc check [flags] [paths...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Verify that formatting each file twice gives the same result.")
		fmt.Fprintln(w, "Exits 1 if any file is unstable.")
	case "tree":
		fmt.Fprintln(w, "Usage: mddoc tree [flags] [paths...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the parsed document tree.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "  -f, --format <s>          Output format: json, yaml")
	case "html":
		fmt.Fprintln(w, "Usage: mddoc html [flags] [paths...]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Render an HTML preview next to each file, or to stdout for stdin.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
		fmt.Fprintln(w, "      --title <s>           Page title (\"\" = first heading or file name)")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Styling:")
		fmt.Fprintln(w, "      --style <name>        CSS style name or file path")
		fmt.Fprintln(w, "      --assets <dir>        Custom asset directory")
		fmt.Fprintln(w, "      --highlight <name>    Code highlight style")
		fmt.Fprintln(w, "      --no-rewrite          Keep relative paths as written")
	default:
		printUsage(w)
		return
	}
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mddoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mddoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		if !isCommand(args[0]) {
			fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
			printUsage(env.Stderr)
			return ExitUsage
		}
		printCommandUsage(env.Stdout, args[0])
	}
	return ExitSuccess
}
