package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/pstansell/netgrep/internal/config"
)

// Options holds the parsed invocation: flags plus the ordered list of
// network tokens. The token list is passed through unmodified, order
// and duplicates preserved.
type Options struct {
	ConfigPath  string
	FilePattern string // from -f; empty means use the configured pattern
	Colorize    bool
	Verbose     bool
	ShowVersion bool
	Tokens      []string
}

// Parse parses the argument vector (without the program name).
// Diagnostics for bad flags go to errOut; the caller decides where to
// print usage, so -h (flag.ErrHelp) and parse errors both come back as
// errors with nothing but the flag package's own diagnostic emitted.
func Parse(name string, args []string, errOut io.Writer) (*Options, error) {
	opts := &Options{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {} // usage printing is the caller's call

	fs.StringVar(&opts.ConfigPath, "config", config.DefaultConfigPath(), "Path to configuration file")
	fs.StringVar(&opts.FilePattern, "f", "", "Override the file search pattern (glob)")
	fs.BoolVar(&opts.Colorize, "c", false, "Colorize the output")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&opts.ShowVersion, "V", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.Tokens = fs.Args()
	return opts, nil
}

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "%s - search files for network addresses\n\n", name)
	fmt.Fprintf(w, "Usage: %s [-h] [-c] [-v] [-V] [-config <path>] [-f <pattern>] NETWORKS...\n\n", name)
	fmt.Fprintf(w, "NETWORKS is one or more IPv4 addresses, CIDR blocks or region aliases.\n")
	fmt.Fprintf(w, "Each one is expanded to its member addresses and every expanded address\n")
	fmt.Fprintf(w, "is searched for in the matched files, printing file:line:content per hit.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprintf(w, "  -h                  Print this help and exit\n")
	fmt.Fprintf(w, "  -c                  Colorize the output\n")
	fmt.Fprintf(w, "  -v                  Enable debug logging\n")
	fmt.Fprintf(w, "  -V                  Print version and exit\n")
	fmt.Fprintf(w, "  -config <path>      Path to configuration file (default %s)\n", config.DefaultConfigPath())
	fmt.Fprintf(w, "  -f <pattern>        Override the file search pattern (glob)\n")
}
