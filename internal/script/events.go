package script

import (
	"encoding/json"
	"fmt"
)

// EventType tags one progress protocol line.
type EventType string

const (
	EventMessage  EventType = "message"
	EventStep     EventType = "step"
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
)

// Event is one line of the streaming progress protocol scripts emit on
// stdout. Fields outside the ones defined for a type are ignored.
type Event struct {
	Type       EventType `json:"type"`
	Message    string    `json:"message,omitempty"`
	Step       int       `json:"step,omitempty"`
	TotalSteps int       `json:"total_steps,omitempty"`
	StepName   string    `json:"step_name,omitempty"`
	Percent    int       `json:"percent,omitempty"`
}

// ParseEvent decodes one output line. Lines that are not valid JSON or
// carry an unknown type return an error; consumers skip those and
// treat the line as plain output.
func ParseEvent(line string) (Event, error) {
	var e Event
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		return Event{}, fmt.Errorf("not a progress event: %w", err)
	}
	switch e.Type {
	case EventMessage, EventStep, EventProgress, EventComplete:
		return e, nil
	default:
		return Event{}, fmt.Errorf("unknown progress event type %q", e.Type)
	}
}

// Encode renders the event as one protocol line.
func (e Event) Encode() string {
	data, err := json.Marshal(e)
	if err != nil {
		// Event has no unmarshalable fields; keep the signature simple.
		return `{"type":"message"}`
	}
	return string(data)
}

// SimulatedLines is the canned protocol sequence a dry-run streaming
// execution emits: one message, one step, one progress, one complete.
func SimulatedLines(name string) []string {
	events := []Event{
		{Type: EventMessage, Message: "simulating " + name},
		{Type: EventStep, Step: 1, TotalSteps: 1, StepName: name},
		{Type: EventProgress, Percent: 100, Message: "simulating " + name},
		{Type: EventComplete, Message: name + " finished (dry-run)"},
	}
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.Encode()
	}
	return lines
}
