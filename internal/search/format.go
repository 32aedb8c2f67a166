package search

import (
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Output line shape. The separator is its own tag so the colorized
// variant can tint it independently.
const outputTemplate = "{{file}}{{sep}}{{line}}{{sep}}{{content}}"

const (
	ansiReset     = "\033[0m"
	ansiMagenta   = "\033[35m"
	ansiGreen     = "\033[32m"
	ansiCyan      = "\033[36m"
	ansiBrightRed = "\033[1m\033[91m"
)

// Formatter renders match records as file:line:content lines, optionally
// colorized (magenta file, green line number, cyan separators, bright
// red matched addresses).
type Formatter struct {
	template *fasttemplate.Template
	colorize bool
}

func NewFormatter(colorize bool) *Formatter {
	return &Formatter{
		template: fasttemplate.New(outputTemplate, "{{", "}}"),
		colorize: colorize,
	}
}

// FormatLine renders one match. positions are the byte offsets of the
// matched address occurrences within content.
func (f *Formatter) FormatLine(file string, lineNumber int, content string, needle string, positions []int) string {
	sep := ":"
	line := strconv.Itoa(lineNumber)

	if f.colorize {
		file = ansiMagenta + file + ansiReset
		line = ansiGreen + line + ansiReset
		sep = ansiCyan + sep + ansiReset
		content = highlight(content, needle, positions)
	}

	return f.template.ExecuteString(map[string]interface{}{
		"file":    file,
		"sep":     sep,
		"line":    line,
		"content": content,
	})
}

// highlight wraps every matched occurrence in bright red.
func highlight(content string, needle string, positions []int) string {
	if len(positions) == 0 {
		return content
	}

	var sb strings.Builder
	prev := 0
	for _, pos := range positions {
		sb.WriteString(content[prev:pos])
		sb.WriteString(ansiBrightRed)
		sb.WriteString(content[pos : pos+len(needle)])
		sb.WriteString(ansiReset)
		prev = pos + len(needle)
	}
	sb.WriteString(content[prev:])

	return sb.String()
}
