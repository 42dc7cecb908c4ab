//go:build windows

package main

import (
	"os"
	"strconv"
)

// detectTerminalWidth only consults $COLUMNS on Windows.
func detectTerminalWidth() int {
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// isTerminal is always false on Windows, so output is never erased in place.
func isTerminal(*os.File) bool { return false }
