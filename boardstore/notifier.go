package boardstore

import "log/slog"

// Notifier receives the user-facing outcome of board actions: the headless
// equivalent of the toast layer. Implementations must be safe for concurrent
// use.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier routes notifications to slog. The default when no frontend is
// attached.
type LogNotifier struct {
	Log *slog.Logger
}

func (n *LogNotifier) logger() *slog.Logger {
	if n.Log != nil {
		return n.Log
	}
	return slog.Default()
}

func (n *LogNotifier) Success(msg string) { n.logger().Info(msg) }
func (n *LogNotifier) Error(msg string)   { n.logger().Error(msg) }
