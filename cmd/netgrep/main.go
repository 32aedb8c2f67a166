package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstansell/netgrep/internal/cli"
	"github.com/pstansell/netgrep/internal/config"
	"github.com/pstansell/netgrep/internal/expand"
	"github.com/pstansell/netgrep/internal/log"
	"github.com/pstansell/netgrep/internal/search"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	name := filepath.Base(os.Args[0])

	opts, err := cli.Parse(name, os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.PrintUsage(os.Stdout, name)
			os.Exit(0)
		}
		// The flag package already printed the diagnostic
		cli.PrintUsage(os.Stderr, name)
		os.Exit(2)
	}

	if opts.ShowVersion {
		fmt.Printf("%s %s (commit: %s, date: %s)\n", name, version, commit, date)
		os.Exit(0)
	}

	if opts.Verbose {
		log.SetVerbose(true)
	}

	if len(opts.Tokens) == 0 {
		fmt.Fprintf(os.Stderr, "%s: at least one network token is required\n", name)
		cli.PrintUsage(os.Stderr, name)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	pattern := cfg.GetAbsFilePattern()
	if opts.FilePattern != "" {
		pattern = opts.FilePattern
	}

	files, err := search.ResolveFiles(pattern)
	if err != nil {
		log.Fatalf("Failed to resolve files: %v", err)
	}

	expander := expand.NewExpander(cfg)
	addrs, err := expander.Expand(context.Background(), opts.Tokens)
	if err != nil {
		log.Fatalf("Failed to expand networks: %v", err)
	}

	log.Debugf("Expanded %d token(s) into %d address(es), searching %d file(s)",
		len(opts.Tokens), len(addrs), len(files))

	searcher := search.NewSearcher(opts.Colorize, os.Stdout)
	if err := searcher.Run(addrs, files); err != nil {
		log.Fatalf("Search failed: %v", err)
	}
}
