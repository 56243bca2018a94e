// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"sort"
	"sync"
)

// DiagnosticKind classifies a recorded soft error.
type DiagnosticKind uint8

// Soft error kinds recorded during evaluation.
const (
	DiagUnimplementedField DiagnosticKind = iota
	DiagInvalidType
	DiagFieldNotFound
	DiagExternNotFound
	DiagExternNotSet
	DiagUnimplementedOp
	DiagStackAdjusted
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnimplementedField:
		return "unimplemented field"
	case DiagInvalidType:
		return "invalid type"
	case DiagFieldNotFound:
		return "field not found"
	case DiagExternNotFound:
		return "extern not found"
	case DiagExternNotSet:
		return "extern not set"
	case DiagUnimplementedOp:
		return "unimplemented op"
	case DiagStackAdjusted:
		return "stack adjusted"
	}
	return "unknown"
}

// Diagnostic is one de-duplicated soft error with its occurrence count.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Count   int
}

// Diagnostics accumulates soft errors keyed by message so evaluating the
// same broken expression thousands of times per frame yields one entry with
// a counter instead of unbounded log spam. Safe for concurrent use.
type Diagnostics struct {
	mu      sync.Mutex
	entries map[string]*Diagnostic
}

// Record bumps the counter for msg, creating the entry on first sight.
func (d *Diagnostics) Record(kind DiagnosticKind, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries == nil {
		d.entries = make(map[string]*Diagnostic)
	}
	e, ok := d.entries[msg]
	if !ok {
		e = &Diagnostic{Kind: kind, Message: msg}
		d.entries[msg] = e
	}
	e.Count++
}

// Len returns the number of distinct entries.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Snapshot returns the current entries sorted by message.
func (d *Diagnostics) Snapshot() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Message < out[j].Message })
	return out
}

// Reset drops all entries.
func (d *Diagnostics) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = nil
}
