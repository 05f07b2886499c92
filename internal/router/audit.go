package router

import (
	"encoding/json"
	"io"
	"sync"
	"time"
	"unicode/utf8"
)

// Path is the branch a turn took through the dispatcher.
type Path string

const (
	PathRouted       Path = "routed"
	PathFallback     Path = "fallback"
	PathHandlerError Path = "handler_error"
)

type auditEntry struct {
	Timestamp   string  `json:"ts"`
	UserID      string  `json:"user"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Confidence  float64 `json:"confidence"`
	Path        Path    `json:"path"`
	Handler     string  `json:"handler"`
	LatencyMS   float64 `json:"latency_ms"`
	InputChars  int     `json:"in_chars"`
	OutputChars int     `json:"out_chars"`
	Error       string  `json:"error,omitempty"`
}

// auditLog appends one JSON line per dispatched turn.
type auditLog struct {
	mu sync.Mutex
	w  io.Writer
}

func (a *auditLog) write(e auditEntry) {
	if a == nil || a.w == nil {
		return
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, _ = a.w.Write(append(b, '\n'))
}

func newAuditEntry(userID, in, out string, start time.Time) auditEntry {
	return auditEntry{
		Timestamp:   start.UTC().Format(time.RFC3339Nano),
		UserID:      userID,
		LatencyMS:   float64(time.Since(start).Microseconds()) / 1000,
		InputChars:  utf8.RuneCountInString(in),
		OutputChars: utf8.RuneCountInString(out),
	}
}
