// Package window tracks the lifecycle of the main window as seen from the
// process: created, shown or hidden, and the explicit quit. Closing the
// window only hides it; the process keeps running until Quit.
package window

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/mattjoyce/taskdesk/internal/events"
)

type State string

const (
	StatePending  State = "pending"
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
	StateQuitting State = "quitting"
)

var ErrQuitting = errors.New("window is shutting down")

type Window struct {
	mu        sync.Mutex
	state     State
	onCreated []func()

	events events.Publisher
	logger *slog.Logger

	quitCh   chan struct{}
	quitOnce sync.Once
}

func New(pub events.Publisher, logger *slog.Logger) *Window {
	return &Window{
		state:  StatePending,
		events: pub,
		logger: logger,
		quitCh: make(chan struct{}),
	}
}

// OnCreated registers fn to run once the window exists. Registering after
// creation runs fn immediately.
func (w *Window) OnCreated(fn func()) {
	w.mu.Lock()
	if w.state == StatePending {
		w.onCreated = append(w.onCreated, fn)
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	fn()
}

// Created marks the window as shown for the first time and fires the
// creation hooks. Later calls do nothing.
func (w *Window) Created() {
	w.mu.Lock()
	if w.state != StatePending {
		w.mu.Unlock()
		return
	}
	w.state = StateVisible
	hooks := w.onCreated
	w.onCreated = nil
	w.mu.Unlock()

	w.logger.Info("window created")
	w.events.Publish("window.created", nil)
	for _, fn := range hooks {
		fn()
	}
}

func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Window) Show() error {
	return w.transition(StateVisible, "window.shown")
}

func (w *Window) Hide() error {
	return w.transition(StateHidden, "window.hidden")
}

// RequestClose keeps the process alive by hiding the window instead.
func (w *Window) RequestClose() error {
	if err := w.transition(StateHidden, "window.hidden"); err != nil {
		return err
	}
	w.logger.Info("close requested, staying resident in background")
	w.events.Publish("window.close_prevented", nil)
	return nil
}

// Quit starts the explicit shutdown. Safe to call more than once.
func (w *Window) Quit() {
	w.quitOnce.Do(func() {
		w.mu.Lock()
		w.state = StateQuitting
		w.mu.Unlock()

		w.logger.Info("quit requested")
		w.events.Publish("window.quit", nil)
		close(w.quitCh)
	})
}

// QuitRequested is closed once Quit has been called.
func (w *Window) QuitRequested() <-chan struct{} {
	return w.quitCh
}

func (w *Window) transition(to State, eventType string) error {
	w.mu.Lock()
	if w.state == StateQuitting {
		w.mu.Unlock()
		return ErrQuitting
	}
	changed := w.state != to
	w.state = to
	w.mu.Unlock()

	if changed {
		w.logger.Debug("window state changed", "state", to)
		w.events.Publish(eventType, map[string]any{"state": to})
	}
	return nil
}
