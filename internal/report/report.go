// Package report implements the append-only failure journal shared by
// script execution and deferred actions. Entries carry a process-wide
// index assigned at append time; consumers use the index to fetch the
// full record later.
package report

import (
	"sync"
	"time"
)

// Entry is one reported failure. Index is strictly increasing from
// zero for the life of the log, with no gaps or duplicates even under
// concurrent reporting.
type Entry struct {
	Index   int
	Script  string
	Command []string
	Message string
	At      time.Time
}

// SubscriberFunc receives every entry appended after registration.
type SubscriberFunc func(Entry)

// Log is an in-memory failure journal with subscriber fan-out.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	subs    []SubscriberFunc
}

func NewLog() *Log {
	return &Log{}
}

// Report appends an entry and notifies every subscriber. Index
// assignment, append, and fan-out run in one critical section, so the
// index a subscriber sees always matches the entry's position in the
// journal. Subscribers run on the reporting goroutine and must not
// call back into the log.
func (l *Log) Report(script string, command []string, message string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := Entry{
		Index:   len(l.entries),
		Script:  script,
		Command: append([]string(nil), command...),
		Message: message,
		At:      time.Now(),
	}
	l.entries = append(l.entries, e)
	for _, fn := range l.subs {
		fn(e)
	}
	return e
}

// Subscribe registers fn for all future entries. Registration is
// permanent and existing entries are not replayed.
func (l *Log) Subscribe(fn SubscriberFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}

// Get returns the entry at index.
func (l *Log) Get(index int) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[index], true
}

// Len reports the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// All returns a snapshot of the journal in append order.
func (l *Log) All() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}
