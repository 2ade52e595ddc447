package interaction

import (
	"errors"
	"io"
	"os"
	"sync"
)

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
)

const keyCtrlC = 3

// ErrNotTerminal is returned when raw mode is unavailable for stdin.
var ErrNotTerminal = errors.New("keyboard: stdin is not a supported terminal")

// KeyboardReader turns raw terminal bytes into KeyEvents.
type KeyboardReader struct {
	in      io.Reader
	input   chan KeyEvent
	stop    chan struct{}
	once    sync.Once
	restore func() error
}

// NewKeyboardReader puts stdin into raw mode and starts reading it.
func NewKeyboardReader() (*KeyboardReader, error) {
	restore, err := enableRawMode(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	kr := NewReader(os.Stdin)
	kr.restore = restore
	return kr, nil
}

// NewReader reads key presses from r without touching terminal modes.
func NewReader(r io.Reader) *KeyboardReader {
	kr := &KeyboardReader{
		in:    r,
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}
	go kr.readInput()
	return kr
}

func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)

	for {
		n, err := kr.in.Read(buf)
		if n > 0 {
			if event, ok := parseInput(buf[:n]); ok {
				select {
				case kr.input <- event:
				case <-kr.stop:
					return
				}
			}
		}
		if err != nil {
			return
		}
		select {
		case <-kr.stop:
			return
		default:
		}
	}
}

// parseInput parses raw keyboard input. Arrow keys and other escape
// sequences are ignored.
func parseInput(buf []byte) (KeyEvent, bool) {
	if len(buf) == 0 {
		return KeyEvent{}, false
	}

	switch buf[0] {
	case keyCtrlC:
		return KeyEvent{Key: keyCtrlC, Type: KeyChar}, true
	case 27:
		if len(buf) == 1 {
			return KeyEvent{Key: 27, Type: KeyEscape}, true
		}
		return KeyEvent{}, false
	}

	return KeyEvent{Key: rune(buf[0]), Type: KeyChar}, true
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops delivering events and restores the terminal.
// A read already blocked on stdin ends with the process.
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		if kr.restore != nil {
			err = kr.restore()
		}
	})
	return err
}
