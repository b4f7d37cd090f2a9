package client

const (
	ESC = "\x1b"

	// Cursor movement
	CursorHome = ESC + "[H"
	CursorHide = ESC + "[?25l"
	CursorShow = ESC + "[?25h"

	// Screen clearing
	ClearScreen = ESC + "[2J"

	// Cursor positioning (use fmt.Sprintf)
	CursorPos = ESC + "[%d;%dH" // row, col (1-based)

	// Text styles
	Reset   = ESC + "[0m"
	Bold    = ESC + "[1m"
	Dim     = ESC + "[2m"
	Reverse = ESC + "[7m"

	// Foreground colors
	FgRed    = ESC + "[31m"
	FgGreen  = ESC + "[32m"
	FgYellow = ESC + "[33m"
	FgCyan   = ESC + "[36m"
)

const (
	ANSI_ENTER_ALT_SCREEN = "\x1b[?1049h"
	ANSI_EXIT_ALT_SCREEN  = "\x1b[?1049l"
)
