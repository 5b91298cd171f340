package utils

import "fmt"

const ShortenLogLength = 16

// ShortenLog shortens an address, hash or encoded signature for log lines
func ShortenLog(s string) string {
	indexCut := ShortenLogLength / 2
	if len(s) <= ShortenLogLength {
		return s
	}
	return fmt.Sprintf("%s...%s", s[:indexCut], s[len(s)-indexCut:])
}
