package jobfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

// Result is the serialised output of one run.
type Result struct {
	Name        string            `json:"name,omitempty"`
	RunID       string            `json:"run_id"`
	Channels    []ChannelSpec     `json:"channels"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// NewResult snapshots a merged channel set and its report. Channels are
// listed in key order so the output is stable across runs.
func NewResult(name string, set *l1curves.ChannelSet, report *diag.Report) *Result {
	res := &Result{
		Name:        name,
		Channels:    []ChannelSpec{},
		Diagnostics: []diag.Diagnostic{},
	}
	if report != nil {
		res.RunID = report.RunID
		res.Diagnostics = append(res.Diagnostics, report.Diagnostics...)
	}
	set.Each(func(key l1curves.ChannelKey, c *l1curves.Curve) {
		res.Channels = append(res.Channels, ChannelSpec{ChannelKey: key, Keys: c.Keys()})
	})
	return res
}

// ChannelSet rebuilds the merged channels from a decoded result.
func (r *Result) ChannelSet() *l1curves.ChannelSet {
	set := l1curves.NewChannelSet()
	for _, c := range r.Channels {
		set.Set(c.ChannelKey, l1curves.NewCurve(c.Keys...))
	}
	return set
}

// Write encodes the result as indented JSON.
func (r *Result) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// WriteFile writes the result to path, creating parent directories.
func (r *Result) WriteFile(path string) error {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadResult decodes a result previously written by Write.
func ReadResult(rd io.Reader) (*Result, error) {
	res := &Result{}
	if err := json.NewDecoder(rd).Decode(res); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return res, nil
}
