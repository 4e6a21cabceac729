// Package actions holds deferred system-changing operations and broadcasts
// their lifecycle transitions to subscribers.
package actions

import (
	"context"
	"strconv"
	"sync"
)

// State is the lifecycle position of a deferred op.
type State int

const (
	StateInitialized State = iota
	StateRunning
	StateFinished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Kind tags the variant of a deferred op.
type Kind string

const (
	KindInstallFlatpak Kind = "install_flatpak"
	KindInstallFormula Kind = "install_formula"
	KindInstallBundle  Kind = "install_bundle"
)

// AllActions is the sentinel identifier broadcast once after StartAll has
// worked through every pending op.
const AllActions = "all_actions"

// Op is one deferred unit of work. Kind selects the variant, the remaining
// fields carry its parameters.
type Op struct {
	Kind Kind

	// Target identifies what the op acts on: a Flatpak application id, a
	// Homebrew token, or a Brewfile path.
	Target string

	// Name is a display name, for kinds that have one.
	Name string

	// Cask marks a Homebrew target as a cask.
	Cask bool
}

// UID keys the registry. Deferring two ops with the same kind and target
// collapses them into one pending entry.
func (o Op) UID() string {
	return string(o.Kind) + ":" + o.Target
}

// Info is the metadata payload sent with every progress event for this op.
func (o Op) Info() map[string]string {
	switch o.Kind {
	case KindInstallFlatpak:
		return map[string]string{"app_id": o.Target, "app_name": o.Name}
	case KindInstallFormula:
		return map[string]string{"formula": o.Target, "cask": strconv.FormatBool(o.Cask)}
	case KindInstallBundle:
		return map[string]string{"bundle": o.Name, "path": o.Target}
	}
	return nil
}

// ProgressFunc observes lifecycle transitions. The closing broadcast of a
// StartAll run carries kind and uid AllActions with nil info.
type ProgressFunc func(kind Kind, uid string, state State, info map[string]string)

// Executor performs the work behind an op.
type Executor interface {
	Execute(ctx context.Context, op Op) error
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, op Op) error

func (f ExecutorFunc) Execute(ctx context.Context, op Op) error { return f(ctx, op) }

// Registry stores pending ops in insertion order and fans progress events
// out to subscribers. Iteration order for replay and execution is the order
// ops were first deferred in. All methods are safe for concurrent use;
// subscriber callbacks run on the calling goroutine, outside the registry
// lock.
type Registry struct {
	exec Executor

	mu    sync.Mutex
	order []string
	ops   map[string]Op
	subs  []ProgressFunc
}

// NewRegistry creates an empty registry that executes ops through exec.
func NewRegistry(exec Executor) *Registry {
	return &Registry{
		exec: exec,
		ops:  make(map[string]Op),
	}
}

// Defer stores op keyed by its UID and broadcasts StateInitialized.
// Deferring an op whose UID is already pending replaces the stored op
// without changing its position in the queue.
func (r *Registry) Defer(op Op) {
	uid := op.UID()

	r.mu.Lock()
	if _, ok := r.ops[uid]; !ok {
		r.order = append(r.order, uid)
	}
	r.ops[uid] = op
	r.mu.Unlock()

	r.Publish(op.Kind, uid, StateInitialized, op.Info())
}

// Clear drops every pending op of the given kind. Ops of other kinds keep
// their relative order. Clearing a kind with nothing pending is a no-op.
func (r *Registry) Clear(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	for _, uid := range r.order {
		if op, ok := r.ops[uid]; ok && op.Kind == kind {
			delete(r.ops, uid)
			continue
		}
		kept = append(kept, uid)
	}
	r.order = kept
}

// Pending returns a snapshot of the stored ops in insertion order.
func (r *Registry) Pending() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingLocked()
}

func (r *Registry) pendingLocked() []Op {
	out := make([]Op, 0, len(r.order))
	for _, uid := range r.order {
		out = append(out, r.ops[uid])
	}
	return out
}

// SubscribeProgress registers fn and immediately replays one
// StateInitialized event per pending op, in insertion order, so a late
// subscriber reconstructs the current queue. There is no unsubscribe.
func (r *Registry) SubscribeProgress(fn ProgressFunc) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	pending := r.pendingLocked()
	r.mu.Unlock()

	for _, op := range pending {
		fn(op.Kind, op.UID(), StateInitialized, op.Info())
	}
}

// Publish fans one progress event out to every subscriber, in subscription
// order.
func (r *Registry) Publish(kind Kind, uid string, state State, info map[string]string) {
	r.mu.Lock()
	subs := append([]ProgressFunc(nil), r.subs...)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(kind, uid, state, info)
	}
}

// StartAll executes every pending op in insertion order, broadcasting
// StateRunning before and StateFinished or StateFailed after each one. A
// final StateFinished under the AllActions sentinel closes the run, even
// when nothing was pending. Ops stay registered afterward and a second
// StartAll re-runs them; call Clear to drop them. Ops deferred while a run
// is in flight join the registry but not the running snapshot.
func (r *Registry) StartAll(ctx context.Context) {
	for _, op := range r.Pending() {
		uid, info := op.UID(), op.Info()
		r.Publish(op.Kind, uid, StateRunning, info)
		if err := r.exec.Execute(ctx, op); err != nil {
			r.Publish(op.Kind, uid, StateFailed, info)
			continue
		}
		r.Publish(op.Kind, uid, StateFinished, info)
	}
	r.Publish(AllActions, AllActions, StateFinished, nil)
}
