package search

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstansell/netgrep/internal/log"
)

// ResolveFiles expands a glob pattern into the list of regular files to
// search. A pattern that matches nothing is not an error; the returned
// list is simply empty.
func ResolveFiles(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern \"%s\": %v", pattern, err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			log.Warnf("Could not stat '%s', skipping: %v", match, err)
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		log.Debugf("File pattern \"%s\" matched no files", pattern)
	}

	return files, nil
}
