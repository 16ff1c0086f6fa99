package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	noColor bool
	workers int
}

// formatFlags holds parse and serialize flags.
type formatFlags struct {
	bullet        string
	stripReserved bool
}

// fmtFlags holds fmt command modes.
type fmtFlags struct {
	write bool // rewrite files in place
	list  bool // list files whose formatting differs
}

// treeFlags holds tree command flags.
type treeFlags struct {
	format string // "json" or "yaml"
}

// htmlFlags holds html command flags.
type htmlFlags struct {
	output    string // output file or directory
	title     string // page title ("" = first heading or file name)
	style     string // style name, CSS path, or CSS content
	assets    string // custom asset directory
	highlight string // chroma style name
	noRewrite bool   // keep relative paths as written
}

// cliFlags holds all flags of one command invocation.
// Only the groups registered for the command are filled.
type cliFlags struct {
	common commonFlags
	format formatFlags
	fmt    fmtFlags
	tree   treeFlags
	html   htmlFlags

	// set reports whether a flag was given on the command line.
	set func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	fs.IntVarP(&f.workers, "workers", "j", 0, "parallel workers (0 = auto)")
}

// addFormatFlags adds parse and serialize flags to a FlagSet.
func addFormatFlags(fs *flag.FlagSet, f *formatFlags) {
	fs.StringVar(&f.bullet, "bullet", "", "bullet list marker: -, *, +")
	fs.BoolVar(&f.stripReserved, "strip-reserved", false, "drop U+E000-U+E003 instead of failing")
}

// addFmtFlags adds fmt mode flags to a FlagSet.
func addFmtFlags(fs *flag.FlagSet, f *fmtFlags) {
	fs.BoolVarP(&f.write, "write", "w", false, "write result to the source file")
	fs.BoolVarP(&f.list, "list", "l", false, "list files whose formatting differs")
}

// addTreeFlags adds tree output flags to a FlagSet.
func addTreeFlags(fs *flag.FlagSet, f *treeFlags) {
	fs.StringVarP(&f.format, "format", "f", "json", "output format: json, yaml")
}

// addHTMLFlags adds HTML preview flags to a FlagSet.
func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.title, "title", "", "page title (\"\" = first heading or file name)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assets, "assets", "", "custom asset directory")
	fs.StringVar(&f.highlight, "highlight", "", "code highlight style")
	fs.BoolVar(&f.noRewrite, "no-rewrite", false, "keep relative paths as written")
}

// parseFlags parses the flags of cmd and returns positional args.
// Parse errors and usage go to w.
func parseFlags(cmd string, args []string, w io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(w)
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	addFormatFlags(fs, &f.format)
	switch cmd {
	case "fmt":
		addFmtFlags(fs, &f.fmt)
	case "tree":
		addTreeFlags(fs, &f.tree)
	case "html":
		addHTMLFlags(fs, &f.html)
	}

	fs.Usage = func() { printCommandUsage(w, cmd) }

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(w, "error: %v\n", err)
		}
		return nil, nil, err
	}

	f.set = fs.Changed
	return f, fs.Args(), nil
}
