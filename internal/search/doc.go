// Package search resolves the file glob and performs the line-oriented
// address search, printing one file:line:content record per hit.
package search
