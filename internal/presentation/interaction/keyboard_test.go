package interaction

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  KeyEvent
		ok    bool
	}{
		{name: "regular char", input: []byte{'a'}, want: KeyEvent{Key: 'a', Type: KeyChar}, ok: true},
		{name: "escape", input: []byte{27}, want: KeyEvent{Key: 27, Type: KeyEscape}, ok: true},
		{name: "ctrl+c", input: []byte{3}, want: KeyEvent{Key: 3, Type: KeyChar}, ok: true},
		{name: "arrow key ignored", input: []byte{27, '[', 'A'}},
		{name: "empty", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseInput(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  KeyEvent
		want Action
	}{
		{KeyEvent{Key: '1'}, Action{Kind: ActionSwitchView, View: model.ViewTitle}},
		{KeyEvent{Key: 't'}, Action{Kind: ActionSwitchView, View: model.ViewTitle}},
		{KeyEvent{Key: '2'}, Action{Kind: ActionSwitchView, View: model.ViewClock}},
		{KeyEvent{Key: 'c'}, Action{Kind: ActionSwitchView, View: model.ViewClock}},
		{KeyEvent{Key: '3'}, Action{Kind: ActionSwitchView, View: model.ViewDashboard}},
		{KeyEvent{Key: 'D'}, Action{Kind: ActionSwitchView, View: model.ViewDashboard}},
		{KeyEvent{Key: 'r'}, Action{Kind: ActionReload}},
		{KeyEvent{Key: '?'}, Action{Kind: ActionToggleHelp}},
		{KeyEvent{Key: 'q'}, Action{Kind: ActionQuit}},
		{KeyEvent{Key: 3}, Action{Kind: ActionQuit}},
		{KeyEvent{Key: 27, Type: KeyEscape}, Action{Kind: ActionQuit}},
		{KeyEvent{Key: 'z'}, Action{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ActionFor(tt.key), "key %q", tt.key.Key)
	}
}

func TestReaderDeliversEvents(t *testing.T) {
	kr := NewReader(strings.NewReader("2"))
	defer kr.Close()

	select {
	case ev := <-kr.Events():
		assert.Equal(t, KeyEvent{Key: '2', Type: KeyChar}, ev)
	case <-time.After(time.Second):
		t.Fatal("no key event")
	}
}

func TestReaderCloseIsIdempotent(t *testing.T) {
	r, w := io.Pipe()
	kr := NewReader(r)

	require.NoError(t, kr.Close())
	require.NoError(t, kr.Close())
	_ = w.Close()
}
