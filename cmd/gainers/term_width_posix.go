//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// stdoutTerminal reports the stdout column count and whether stdout is a terminal.
func stdoutTerminal() (int, bool) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws == nil {
		return columnsEnv(), false
	}
	if ws.Col == 0 {
		return columnsEnv(), true
	}
	return int(ws.Col), true
}
