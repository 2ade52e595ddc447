package vt

import (
	"os"
	"testing"

	"github.com/creack/pty"
)

// OpenPTY opens a pseudo-terminal of the given size and closes both ends
// when the test finishes. The test is skipped where ptys are unavailable.
func OpenPTY(t testing.TB, rows, cols uint16) (master, tty *os.File) {
	t.Helper()

	master, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = tty.Close()
		_ = master.Close()
	})

	if err := pty.Setsize(master, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		t.Fatalf("set pty size: %v", err)
	}
	return master, tty
}
