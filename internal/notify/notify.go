// Package notify provides OS-native notification functionality.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Jayphen/opsboard/internal/board"
)

// maxListed is how many task names an overdue notification spells out.
const maxListed = 3

// run executes a notification command. Replaced in tests.
var run = func(cmd *exec.Cmd) error { return cmd.Run() }

// Send sends an OS-native notification with the given title and message.
// It detects the platform and uses the appropriate notification command:
// - macOS: osascript (native AppleScript)
// - Linux: notify-send (libnotify)
//
// The returned channel receives the command's error (nil on success or on
// unsupported platforms) and is closed. Callers that don't care can ignore it.
func Send(title, message string) <-chan error {
	done := make(chan error, 1)
	cmd := command(runtime.GOOS, title, message)

	// Run notification in background goroutine to make it non-blocking
	go func() {
		defer close(done)
		if cmd == nil {
			// Unsupported platform - fail silently
			done <- nil
			return
		}
		done <- run(cmd)
	}()
	return done
}

// command builds the notification command for goos, or nil when the platform
// has none.
func command(goos, title, message string) *exec.Cmd {
	switch goos {
	case "darwin":
		// macOS: Use osascript with AppleScript
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(message), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script)

	case "linux":
		// Linux: Use notify-send
		return exec.Command("notify-send", title, message)

	default:
		return nil
	}
}

// OverdueMessage summarizes the overdue section of b. ok is false when
// nothing is overdue.
func OverdueMessage(b board.Board) (title, message string, ok bool) {
	n := len(b.Overdue)
	if n == 0 {
		return "", "", false
	}

	if n == 1 {
		title = "1 overdue task"
	} else {
		title = fmt.Sprintf("%d overdue tasks", n)
	}

	lines := make([]string, 0, maxListed+1)
	for i, t := range b.Overdue {
		if i == maxListed {
			lines = append(lines, fmt.Sprintf("+%d more", n-maxListed))
			break
		}
		lines = append(lines, fmt.Sprintf("%s (%dd)", t.Name, b.DaysOverdue(t)))
	}
	return title, strings.Join(lines, "\n"), true
}

// SendOverdue notifies about overdue tasks in b. It returns nil when there
// is nothing to send.
func SendOverdue(b board.Board) <-chan error {
	title, message, ok := OverdueMessage(b)
	if !ok {
		return nil
	}
	return Send(title, message)
}

// escapeAppleScript escapes special characters for AppleScript strings.
// This prevents script injection and syntax errors.
func escapeAppleScript(s string) string {
	// Replace backslashes first, then quotes
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		switch ch {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
