// SPDX-License-Identifier: Apache-2.0

// Package applog provides the structured, pterm-backed logger used by every
// command for non-stdout-protocol diagnostics (the literal Added/Removed,
// Success/Failed lines are printed directly by the commands themselves;
// applog carries everything else: warnings and lifecycle events).
package applog

import "github.com/pterm/pterm"

// Logger is implemented by both the real pterm-backed logger and a no-op
// variant used in tests that don't want console noise.
type Logger interface {
	LogFetchStart(schema, kind string)
	LogFetchComplete(schema, kind string, added, removed int)
	LogPullItem(schema, kind, item string)
	LogPullWarning(schema, kind, item, reason string)
	LogPushApply(schema, fn, path string)
	LogPushRollback(reason string)
	LogTunnelOpen(host string, localPort int)
	LogTunnelClose()

	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type ptermLogger struct {
	logger pterm.Logger
}

type noopLogger struct{}

// New returns a Logger backed by pterm.DefaultLogger.
func New() Logger {
	return &ptermLogger{logger: pterm.DefaultLogger}
}

// NewNoop returns a Logger that discards everything, for tests and
// non-interactive embeddings.
func NewNoop() Logger {
	return &noopLogger{}
}

func (l *ptermLogger) LogFetchStart(schema, kind string) {
	l.logger.Info("fetching inventory", l.logger.Args("schema", schema, "kind", kind))
}

func (l *ptermLogger) LogFetchComplete(schema, kind string, added, removed int) {
	l.logger.Info("fetch complete", l.logger.Args("schema", schema, "kind", kind, "added", added, "removed", removed))
}

func (l *ptermLogger) LogPullItem(schema, kind, item string) {
	l.logger.Info("pulled item", l.logger.Args("schema", schema, "kind", kind, "item", item))
}

func (l *ptermLogger) LogPullWarning(schema, kind, item, reason string) {
	l.logger.Warn("pull warning", l.logger.Args("schema", schema, "kind", kind, "item", item, "reason", reason))
}

func (l *ptermLogger) LogPushApply(schema, fn, path string) {
	l.logger.Info("applying function file", l.logger.Args("schema", schema, "function", fn, "path", path))
}

func (l *ptermLogger) LogPushRollback(reason string) {
	l.logger.Warn("rolling back push transaction", l.logger.Args("reason", reason))
}

func (l *ptermLogger) LogTunnelOpen(host string, localPort int) {
	l.logger.Info("opened ssh tunnel", l.logger.Args("host", host, "local_port", localPort))
}

func (l *ptermLogger) LogTunnelClose() {
	l.logger.Info("closed ssh tunnel")
}

func (l *ptermLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.logger.Args(args...))
}

func (l *ptermLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, l.logger.Args(args...))
}

func (l *noopLogger) LogFetchStart(schema, kind string)                             {}
func (l *noopLogger) LogFetchComplete(schema, kind string, added, removed int)       {}
func (l *noopLogger) LogPullItem(schema, kind, item string)                         {}
func (l *noopLogger) LogPullWarning(schema, kind, item, reason string)               {}
func (l *noopLogger) LogPushApply(schema, fn, path string)                           {}
func (l *noopLogger) LogPushRollback(reason string)                                  {}
func (l *noopLogger) LogTunnelOpen(host string, localPort int)                       {}
func (l *noopLogger) LogTunnelClose()                                                {}
func (l *noopLogger) Info(msg string, args ...any)                                   {}
func (l *noopLogger) Warn(msg string, args ...any)                                   {}
