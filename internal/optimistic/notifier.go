package optimistic

import "log/slog"

// Notice is the user-visible failure surfaced when a mutation rolls back.
// Exactly one Notice is raised per failed mutation instance.
type Notice struct {
	Mutation string
	Err      error
}

// Notifier delivers failure notices to whatever the presentation layer uses
// for transient alerts.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// NopNotifier discards notices.
type NopNotifier struct{}

func (NopNotifier) Notify(Notice) {}

// LogNotifier writes notices to a logger. The default when nothing richer
// is attached.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(n Notice) {
	l.Logger.Warn("mutation failed", "mutation", n.Mutation, "error", n.Err)
}
