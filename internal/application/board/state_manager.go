package board

import (
	"sync"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// StateManager manages UI state in a thread-safe manner
type StateManager struct {
	mu               sync.RWMutex
	interactionState model.InteractionState
}

// NewStateManager creates a StateManager starting in view.
func NewStateManager(view model.ViewMode) *StateManager {
	return &StateManager{interactionState: model.InteractionState{View: view}}
}

// GetInteractionState returns a copy of the current interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.interactionState
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	updateFunc(&sm.interactionState)
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.UpdateInteractionState(func(s *model.InteractionState) {
		s.IsLoading = isLoading
		s.StatusMessage = message
	})
}

// SetStatus sets the status line; an empty message clears it.
func (sm *StateManager) SetStatus(message string) {
	sm.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = message
	})
}
