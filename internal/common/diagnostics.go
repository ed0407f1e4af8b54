package common

import (
	"context"
	"log/slog"
	"sync"
)

// Warning is a tolerated, degenerate condition observed during a computation.
type Warning struct {
	Fields  Fields
	Message string
}

// Diagnostics collects warnings from pure computations so they can stay free
// of global logging state. A nil *Diagnostics discards everything.
// It is safe for concurrent use.
type Diagnostics struct {
	logger   *slog.Logger
	warnings []Warning
	mu       sync.Mutex
}

// NewDiagnostics creates a sink. If logger is non-nil every warning is also
// forwarded to it at warn level.
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

// Warn records a warning.
func (d *Diagnostics) Warn(msg string, fields Fields) {
	if d == nil {
		return
	}

	d.mu.Lock()
	d.warnings = append(d.warnings, Warning{Message: msg, Fields: fields})
	d.mu.Unlock()

	if d.logger != nil {
		attrs := make([]slog.Attr, 0, len(fields))
		for k, v := range fields {
			attrs = append(attrs, slog.Any(k, v))
		}
		d.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
	}
}

// Warnings returns a copy of everything recorded so far.
func (d *Diagnostics) Warnings() []Warning {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Len returns the number of recorded warnings.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}
