package interaction

import "github.com/penwyp/go-hackathon-board/internal/core/model"

// ActionKind is what a key press asks the board to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSwitchView
	ActionReload
	ActionToggleHelp
	ActionQuit
)

// Action is the decoded meaning of a KeyEvent.
type Action struct {
	Kind ActionKind
	View model.ViewMode
}

// ActionFor maps keys to board actions:
// 1/t title, 2/c clock, 3/d dashboard, r reload, h help, q/Esc/Ctrl+C quit.
func ActionFor(event KeyEvent) Action {
	if event.Type == KeyEscape {
		return Action{Kind: ActionQuit}
	}

	switch event.Key {
	case '1', 't', 'T':
		return Action{Kind: ActionSwitchView, View: model.ViewTitle}
	case '2', 'c', 'C':
		return Action{Kind: ActionSwitchView, View: model.ViewClock}
	case '3', 'd', 'D':
		return Action{Kind: ActionSwitchView, View: model.ViewDashboard}
	case 'r', 'R':
		return Action{Kind: ActionReload}
	case 'h', 'H', '?':
		return Action{Kind: ActionToggleHelp}
	case 'q', 'Q', keyCtrlC:
		return Action{Kind: ActionQuit}
	}
	return Action{}
}
