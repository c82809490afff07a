//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// stdoutTerminal reports the stdout column count and whether stdout is a console.
func stdoutTerminal() (int, bool) {
	h := windows.Handle(os.Stdout.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return columnsEnv(), false
	}
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h, &info); err == nil {
		if w := int(info.Window.Right-info.Window.Left) + 1; w > 0 {
			return w, true
		}
	}
	return columnsEnv(), true
}
