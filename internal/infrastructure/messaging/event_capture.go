package messaging

import "sync"

// EventCapture is an in-memory EventPublisher for tests. It records every
// published event instead of sending it anywhere.
type EventCapture struct {
	started   []TransferStartedEvent
	completed []TransferCompletedEvent
	recovered []TransferRecoveredEvent
	canceled  []TransferCanceledEvent
	mu        sync.RWMutex
}

// NewEventCapture creates a new event capture publisher.
func NewEventCapture() *EventCapture {
	return &EventCapture{}
}

func (e *EventCapture) PublishTransferStarted(event TransferStartedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = append(e.started, event)
	return nil
}

func (e *EventCapture) PublishTransferCompleted(event TransferCompletedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed = append(e.completed, event)
	return nil
}

func (e *EventCapture) PublishTransferRecovered(event TransferRecoveredEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recovered = append(e.recovered, event)
	return nil
}

func (e *EventCapture) PublishTransferCanceled(event TransferCanceledEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canceled = append(e.canceled, event)
	return nil
}

// Close is a no-op for event capture.
func (e *EventCapture) Close() error { return nil }

// IsHealthy always returns true for event capture.
func (e *EventCapture) IsHealthy() bool { return true }

// Started returns a copy of the captured transfer started events.
func (e *EventCapture) Started() []TransferStartedEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]TransferStartedEvent, len(e.started))
	copy(out, e.started)
	return out
}

// Completed returns a copy of the captured transfer completed events.
func (e *EventCapture) Completed() []TransferCompletedEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]TransferCompletedEvent, len(e.completed))
	copy(out, e.completed)
	return out
}

// Recovered returns a copy of the captured transfer recovered events.
func (e *EventCapture) Recovered() []TransferRecoveredEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]TransferRecoveredEvent, len(e.recovered))
	copy(out, e.recovered)
	return out
}

// Canceled returns a copy of the captured transfer canceled events.
func (e *EventCapture) Canceled() []TransferCanceledEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]TransferCanceledEvent, len(e.canceled))
	copy(out, e.canceled)
	return out
}

// Reset clears all captured events.
func (e *EventCapture) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = nil
	e.completed = nil
	e.recovered = nil
	e.canceled = nil
}

// Count returns the total number of events captured.
func (e *EventCapture) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.started) + len(e.completed) + len(e.recovered) + len(e.canceled)
}
