//go:build linux || darwin

package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-hackathon-board/internal/testing/vt"
)

func TestRawModeDeliversKeysWithoutEnter(t *testing.T) {
	master, tty := vt.OpenPTY(t, 24, 80)

	restore, err := enableRawMode(int(tty.Fd()))
	require.NoError(t, err)

	kr := NewReader(tty)
	defer kr.Close()

	// In canonical mode this would sit in the line buffer until a newline.
	_, err = master.Write([]byte("q"))
	require.NoError(t, err)

	select {
	case ev := <-kr.Events():
		assert.Equal(t, KeyEvent{Key: 'q', Type: KeyChar}, ev)
		assert.Equal(t, ActionQuit, ActionFor(ev).Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("key press not delivered in raw mode")
	}

	assert.NoError(t, restore())
}

func TestRawModeRejectsNonTerminal(t *testing.T) {
	_, err := enableRawMode(-1)
	assert.ErrorIs(t, err, ErrNotTerminal)
}
