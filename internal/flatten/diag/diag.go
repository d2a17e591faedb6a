// Package diag collects informational diagnostics raised while flattening.
//
// Diagnostics never interrupt a merge: a stage records what it could not
// resolve and carries on with the rest of the channel set.
package diag

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

// Kind classifies a diagnostic.
type Kind string

const (
	PathNotFound             Kind = "path_not_found"
	PathAmbiguous            Kind = "path_ambiguous"
	PathCollision            Kind = "path_collision"
	InvalidPlacement         Kind = "invalid_placement"
	UnsupportedExtrapolation Kind = "unsupported_extrapolation"
	IncompleteGroup          Kind = "incomplete_group"
	EmptyChannelSet          Kind = "empty_channel_set"
	NilInput                 Kind = "nil_input"
)

// Diagnostic is one informational message from a stage.
type Diagnostic struct {
	Stage   string               `json:"stage"`
	Kind    Kind                 `json:"kind"`
	Channel *l1curves.ChannelKey `json:"channel,omitempty"`
	Message string               `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Channel != nil {
		return fmt.Sprintf("[%s] %s %s: %s", d.Stage, d.Kind, d.Channel, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Stage, d.Kind, d.Message)
}

// Report accumulates diagnostics for one merge invocation. All methods are
// safe on a nil *Report, which discards everything.
type Report struct {
	RunID       string       `json:"run_id"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewReport starts a report with a fresh run ID.
func NewReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

// Add records a diagnostic. key may be nil for set-level messages.
func (r *Report) Add(stage string, kind Kind, key *l1curves.ChannelKey, format string, args ...interface{}) {
	if r == nil {
		return
	}
	var k *l1curves.ChannelKey
	if key != nil {
		cp := *key
		k = &cp
	}
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Stage:   stage,
		Kind:    kind,
		Channel: k,
		Message: fmt.Sprintf(format, args...),
	})
}

// Len returns the number of diagnostics recorded.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Diagnostics)
}

// Count returns how many diagnostics of kind were recorded.
func (r *Report) Count(kind Kind) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// ByKind returns diagnostic counts keyed by kind.
func (r *Report) ByKind() map[Kind]int {
	out := make(map[Kind]int)
	if r == nil {
		return out
	}
	for _, d := range r.Diagnostics {
		out[d.Kind]++
	}
	return out
}

// Flush writes every diagnostic through logf, followed by a per-kind summary.
func (r *Report) Flush(logf func(format string, v ...interface{})) {
	if r == nil || logf == nil || len(r.Diagnostics) == 0 {
		return
	}
	for _, d := range r.Diagnostics {
		logf("flatten %s: %s", r.RunID, d)
	}
	counts := r.ByKind()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		logf("flatten %s: %d x %s", r.RunID, counts[Kind(k)], k)
	}
}
