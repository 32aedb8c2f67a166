package search

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/pstansell/netgrep/internal/log"
	"github.com/pstansell/netgrep/internal/utils"
)

// Searcher performs the line-oriented address search over resolved files
// and writes one formatted line per hit.
type Searcher struct {
	formatter *Formatter
	out       io.Writer
}

func NewSearcher(colorize bool, out io.Writer) *Searcher {
	return &Searcher{
		formatter: NewFormatter(colorize),
		out:       out,
	}
}

// Run searches every file for every address, addresses in the given
// order. A file that cannot be read is skipped with a warning; it never
// aborts the remaining files. Finding nothing is a normal outcome.
func (s *Searcher) Run(addrs []netip.Addr, files []string) error {
	buffer := bufio.NewWriter(s.out)

	for _, addr := range addrs {
		needle := addr.String()
		for _, file := range files {
			s.searchFile(needle, file, buffer)
		}
	}

	if err := buffer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %v", err)
	}
	return nil
}

// searchFile scans a single file for one address.
func (s *Searcher) searchFile(needle string, path string, buffer *bufio.Writer) {
	file, err := os.Open(path)
	if err != nil {
		log.Warnf("Could not open file '%s', skipping: %v", path, err)
		return
	}
	defer utils.CloseOrPanic(file)

	lineNumber := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		positions := matchPositions(line, needle)
		if len(positions) == 0 {
			continue
		}

		if _, err := buffer.WriteString(s.formatter.FormatLine(path, lineNumber, line, needle, positions)); err != nil {
			log.Errorf("Failed to write output: %v", err)
			return
		}
		if err := buffer.WriteByte('\n'); err != nil {
			log.Errorf("Failed to write output: %v", err)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Warnf("Could not read file '%s', skipping the rest: %v", path, err)
	}
}

// matchPositions returns the byte offsets of every occurrence of needle
// in line that is not flanked by a digit or a dot. The guard keeps
// 10.0.0.1 from matching inside 10.0.0.100 or 110.0.0.1.
func matchPositions(line, needle string) []int {
	var positions []int

	offset := 0
	for {
		idx := strings.Index(line[offset:], needle)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(needle)

		if !isAddrChar(line, start-1) && !isAddrChar(line, end) {
			positions = append(positions, start)
		}

		offset = start + 1
	}

	return positions
}

func isAddrChar(line string, i int) bool {
	if i < 0 || i >= len(line) {
		return false
	}
	c := line[i]
	return (c >= '0' && c <= '9') || c == '.'
}
