package cli

import (
	"bytes"
	"errors"
	"flag"
	"reflect"
	"strings"
	"testing"
)

func TestParse_TokensPassedThrough(t *testing.T) {
	var diag bytes.Buffer
	opts, err := Parse("netgrep", []string{"10.0.0.0/30", "ams1", "10.0.0.0/30"}, &diag)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Order and duplicates are preserved; expansion owns normalization
	expected := []string{"10.0.0.0/30", "ams1", "10.0.0.0/30"}
	if !reflect.DeepEqual(opts.Tokens, expected) {
		t.Errorf("Expected tokens %v, got %v", expected, opts.Tokens)
	}
	if opts.FilePattern != "" {
		t.Errorf("Expected empty file pattern, got %q", opts.FilePattern)
	}
	if opts.Colorize || opts.Verbose || opts.ShowVersion {
		t.Error("Expected boolean flags to default to false")
	}
}

func TestParse_Flags(t *testing.T) {
	var diag bytes.Buffer
	opts, err := Parse("netgrep", []string{"-c", "-v", "-f", "/etc/hosts", "10.0.0.1"}, &diag)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !opts.Colorize {
		t.Error("Expected -c to set Colorize")
	}
	if !opts.Verbose {
		t.Error("Expected -v to set Verbose")
	}
	if opts.FilePattern != "/etc/hosts" {
		t.Errorf("Expected file pattern /etc/hosts, got %q", opts.FilePattern)
	}
	if !reflect.DeepEqual(opts.Tokens, []string{"10.0.0.1"}) {
		t.Errorf("Unexpected tokens: %v", opts.Tokens)
	}
}

func TestParse_HelpRequested(t *testing.T) {
	var diag bytes.Buffer
	_, err := Parse("netgrep", []string{"-h"}, &diag)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
}

func TestParse_UnknownFlag(t *testing.T) {
	var diag bytes.Buffer
	_, err := Parse("netgrep", []string{"-z", "10.0.0.1"}, &diag)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Expected parse error, got %v", err)
	}
	if !strings.Contains(diag.String(), "-z") {
		t.Errorf("Expected diagnostic to name the offending flag, got %q", diag.String())
	}
}

func TestParse_MissingFlagArgument(t *testing.T) {
	var diag bytes.Buffer
	_, err := Parse("netgrep", []string{"-f"}, &diag)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Expected parse error, got %v", err)
	}
	if !strings.Contains(diag.String(), "-f") {
		t.Errorf("Expected diagnostic to name the offending flag, got %q", diag.String())
	}
}

func TestParse_VersionFlag(t *testing.T) {
	var diag bytes.Buffer
	opts, err := Parse("netgrep", []string{"-V"}, &diag)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !opts.ShowVersion {
		t.Error("Expected -V to set ShowVersion")
	}
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	PrintUsage(&out, "netgrep")

	usage := out.String()
	if usage == "" {
		t.Fatal("Expected non-empty usage text")
	}
	for _, want := range []string{"netgrep", "[-h]", "-f <pattern>", "NETWORKS"} {
		if !strings.Contains(usage, want) {
			t.Errorf("Expected usage to contain %q", want)
		}
	}
}
