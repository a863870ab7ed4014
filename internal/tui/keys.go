package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyAction represents an action triggered by a key press.
type KeyAction int

const (
	ActionNone KeyAction = iota
	ActionQuit
	ActionBack
	ActionSubmit
	ActionPageUp
	ActionPageDown
)

// KeyHandler maps keys the active step left unhandled to program actions.
type KeyHandler struct{}

// NewKeyHandler creates a new key handler.
func NewKeyHandler() *KeyHandler {
	return &KeyHandler{}
}

// Intercept reports keys that never reach the active step.
func (k *KeyHandler) Intercept(msg tea.KeyMsg) KeyAction {
	switch msg.String() {
	case "ctrl+c":
		return ActionQuit
	case "pgup":
		return ActionPageUp
	case "pgdown":
		return ActionPageDown
	}
	return ActionNone
}

// Handle processes a key the active step did not consume.
func (k *KeyHandler) Handle(msg tea.KeyMsg) KeyAction {
	switch msg.String() {
	case "esc":
		return ActionBack
	case "enter":
		return ActionSubmit
	default:
		return ActionNone
	}
}

// Hints returns the key help shown in the status bar.
func (k *KeyHandler) Hints(first, last bool) string {
	switch {
	case last:
		return "enter: create  esc: back  ctrl+c: quit"
	case first:
		return "tab: next field  ctrl+g: suggest  enter: continue  ctrl+c: quit"
	default:
		return "tab: next field  ctrl+g: suggest  enter: continue  esc: back"
	}
}
