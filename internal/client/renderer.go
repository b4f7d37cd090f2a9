package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const SEP = "──────────────────────────────────────────────────────"

// FIXED is the number of rows that are not log lines: three header rows,
// the users row and its separator, and four rows of input and footer.
const FIXED = 9

// render redraws the whole screen. Output is buffered so the terminal sees
// one write per frame.
func render(out io.Writer, h *Handler) error {
	w := bufio.NewWriter(out)
	fmt.Fprint(w, ClearScreen, CursorHome, CursorHide)
	printHeader(w, h.endpoint, h.state, h.width)
	printRegisteredUsers(w, h.users.String(), h.width)
	printLog(w, h.visibleLines(), h.width)
	printInput(w, h.input, h.height, h.width)
	return w.Flush()
}

const headerTitle = " GoChatLog - "

func printHeader(w io.Writer, endpoint string, state ConnState, width int) {
	fmt.Fprint(w, Reset, fit(SEP, width))
	fmt.Fprintf(w, CursorPos, 2, 1)
	fmt.Fprint(w, headerTitle, clip(endpoint, width, headerTitle+" ○ "+state.String()), " ")
	switch state {
	case CONN_OPEN:
		fmt.Fprint(w, FgGreen, "● ", state.String())
	case CONN_CONNECTING:
		fmt.Fprint(w, FgYellow, "○ ", state.String())
	default:
		fmt.Fprint(w, FgRed, "○ ", state.String())
	}
	fmt.Fprintf(w, CursorPos, 3, 1)
	fmt.Fprint(w, Reset, fit(SEP, width))
}

const usersLabel = " Registered: "

func printRegisteredUsers(w io.Writer, users string, width int) {
	fmt.Fprintf(w, CursorPos, 4, 1)
	fmt.Fprint(w, Reset, usersLabel)
	if users == "" {
		fmt.Fprint(w, Dim, "nobody yet", Reset)
	} else {
		fmt.Fprint(w, FgCyan, clip(sanitize(users), width, usersLabel), Reset)
	}
	fmt.Fprintf(w, CursorPos, 5, 1)
	fmt.Fprint(w, Reset, fit(SEP, width))
}

func printLog(w io.Writer, lines []LogLine, width int) {
	row := 6
	for _, line := range lines {
		stamp := "[" + line.Time.Format(TIME_FORMAT) + "]"
		fmt.Fprintf(w, CursorPos, row, 1)
		fmt.Fprint(w, Reset, Dim, stamp, Reset, " ", clip(sanitize(line.Text), width, stamp+" "))
		row++
	}
}

const (
	footer      = "↑ ↓ Scroll     Enter: Send     Tab: Focus     Ctrl+C: Quit"
	inputPrompt = " > "
	sendButton  = "[ Send ]"
)

func printInput(w io.Writer, input Input, height, width int) {
	fmt.Fprintf(w, CursorPos, height-3, 1)
	fmt.Fprint(w, Reset, fit(SEP, width))
	fmt.Fprintf(w, CursorPos, height-2, 1)
	if input.Text() == "" {
		fmt.Fprint(w, Dim, " > enter message... ", Reset)
	} else {
		fmt.Fprint(w, inputPrompt, clipTail(input.Text(), width, inputPrompt+" "+sendButton), " ")
	}
	if input.Focus() == FOCUS_SEND_BUTTON {
		fmt.Fprint(w, Reverse, Bold, sendButton, Reset)
	} else {
		fmt.Fprint(w, sendButton)
	}
	fmt.Fprintf(w, CursorPos, height-1, 1)
	fmt.Fprint(w, Reset, fit(SEP, width))
	fmt.Fprintf(w, CursorPos, height, 1)
	fmt.Fprint(w, fit(footer, width))
	fmt.Fprint(w, Reset)
}

// sanitize makes untrusted text safe to place on one screen row. C0, DEL and
// C1 controls are written as visible \xNN escapes so no escape sequence,
// newline or carriage return reaches the terminal.
func sanitize(text string) string {
	if !strings.ContainsFunc(text, isControl) {
		return text
	}
	var b strings.Builder
	for _, r := range text {
		if isControl(r) {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

// clip cuts text so that prefix and text fit in width columns, counting one
// column per rune. A width of zero or less means unknown and leaves text as is.
func clip(text string, width int, prefix string) string {
	room := width - utf8.RuneCountInString(prefix)
	if width <= 0 || utf8.RuneCountInString(text) <= room {
		return text
	}
	if room <= 1 {
		return ""
	}
	runes := []rune(text)
	return string(runes[:room-1]) + "…"
}

// fit hard cuts our own fixed rows to width.
func fit(text string, width int) string {
	if width <= 0 || utf8.RuneCountInString(text) <= width {
		return text
	}
	return string([]rune(text)[:width])
}

// clipTail is clip for the input field, which keeps the end of the text
// where the cursor is.
func clipTail(text string, width int, surround string) string {
	room := width - utf8.RuneCountInString(surround)
	if width <= 0 || utf8.RuneCountInString(text) <= room {
		return text
	}
	if room <= 1 {
		return ""
	}
	runes := []rune(text)
	return "…" + string(runes[len(runes)-room+1:])
}
