// Package jobfile reads flattening jobs from JSON or YAML and writes merged
// results back out as JSON.
//
// It sits outside the flattening core: it turns authored files into stacks,
// placements and a hierarchy, drops muted stacks before the core sees
// them, and serialises whatever the pipeline returns.
package jobfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/l2placement"
	"github.com/banshee-data/animflatten/internal/flatten/l3tracks"
	"github.com/banshee-data/animflatten/internal/flatten/l5paths"
	"github.com/banshee-data/animflatten/internal/flatten/l6offset"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Format selects the job encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const maxJobSize = 64 * 1024 * 1024 // 64MB

// Job is the on-disk description of one flattening run.
type Job struct {
	Name       string        `json:"name" yaml:"name"`
	Hierarchy  *l5paths.Node `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty"`
	RootOffset *OffsetSpec   `json:"root_offset,omitempty" yaml:"root_offset,omitempty"`
	Stacks     []StackSpec   `json:"stacks" yaml:"stacks"`
}

// OffsetSpec describes the root offset. Rotation (x, y, z, w) takes
// precedence over Euler (degrees) when both are given.
type OffsetSpec struct {
	Translation []float64 `json:"translation,omitempty" yaml:"translation,omitempty"`
	Rotation    []float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Euler       []float64 `json:"euler,omitempty" yaml:"euler,omitempty"`
}

// StackSpec is one priority stack. Stacks are listed low to high priority.
type StackSpec struct {
	Name       string          `json:"name" yaml:"name"`
	Active     *bool           `json:"active,omitempty" yaml:"active,omitempty"`
	Placements []PlacementSpec `json:"placements" yaml:"placements"`
}

// PlacementSpec is one authored clip on the timeline.
type PlacementSpec struct {
	Name              string                        `json:"name" yaml:"name"`
	Start             float64                       `json:"start" yaml:"start"`
	ClipIn            float64                       `json:"clip_in" yaml:"clip_in"`
	Duration          float64                       `json:"duration" yaml:"duration"`
	TimeScale         *float64                      `json:"time_scale,omitempty" yaml:"time_scale,omitempty"`
	PreExtrapolation  l2placement.ExtrapolationMode `json:"pre_extrapolation" yaml:"pre_extrapolation"`
	PostExtrapolation l2placement.ExtrapolationMode `json:"post_extrapolation" yaml:"post_extrapolation"`
	Channels          []ChannelSpec                 `json:"channels" yaml:"channels"`
}

// ChannelSpec is one authored curve.
type ChannelSpec struct {
	l1curves.ChannelKey `yaml:",inline"`
	Keys                []l1curves.Keyframe `json:"keys" yaml:"keys"`
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("job file must be .json, .yaml or .yml, got %q", filepath.Ext(path))
	}
}

// Load reads and decodes a job file.
func Load(path string) (*Job, error) {
	cleanPath := filepath.Clean(path)
	format, err := FormatForPath(cleanPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat job file: %w", err)
	}
	if info.Size() > maxJobSize {
		return nil, fmt.Errorf("job file too large: %d bytes (max %d)", info.Size(), maxJobSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	return Decode(data, format)
}

// Decode parses a job in the given format and checks its structure.
func Decode(data []byte, format Format) (*Job, error) {
	job := &Job{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("failed to parse job JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("failed to parse job YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown job format %q", format)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}
	return job, nil
}

// Validate checks structure only. Timing problems such as a non-positive
// time scale are left to the pipeline, which rejects those placements and
// reports them.
func (j *Job) Validate() error {
	for si, s := range j.Stacks {
		for pi, p := range s.Placements {
			seen := make(map[l1curves.ChannelKey]bool, len(p.Channels))
			for _, c := range p.Channels {
				if seen[c.ChannelKey] {
					return fmt.Errorf("stack %d (%s) placement %d (%s): duplicate channel %s", si, s.Name, pi, p.Name, c.ChannelKey)
				}
				seen[c.ChannelKey] = true
			}
		}
	}
	if o := j.RootOffset; o != nil {
		if len(o.Translation) != 0 && len(o.Translation) != 3 {
			return fmt.Errorf("root_offset.translation needs 3 values, got %d", len(o.Translation))
		}
		if len(o.Rotation) != 0 && len(o.Rotation) != 4 {
			return fmt.Errorf("root_offset.rotation needs 4 values (x, y, z, w), got %d", len(o.Rotation))
		}
		if len(o.Euler) != 0 && len(o.Euler) != 3 {
			return fmt.Errorf("root_offset.euler needs 3 values, got %d", len(o.Euler))
		}
	}
	return nil
}

// IsActive reports whether the stack takes part in the merge. Stacks
// without an explicit flag are active.
func (s StackSpec) IsActive() bool {
	return s.Active == nil || *s.Active
}

// BuildStacks converts the active stacks into pipeline input, keeping
// their priority order.
func (j *Job) BuildStacks() []*l3tracks.Stack {
	var out []*l3tracks.Stack
	for _, s := range j.Stacks {
		if !s.IsActive() {
			continue
		}
		stack := &l3tracks.Stack{Name: s.Name}
		for _, p := range s.Placements {
			stack.Placements = append(stack.Placements, p.build())
		}
		out = append(out, stack)
	}
	return out
}

func (p PlacementSpec) build() *l2placement.Placement {
	scale := 1.0
	if p.TimeScale != nil {
		scale = *p.TimeScale
	}
	curves := l1curves.NewChannelSet()
	for _, c := range p.Channels {
		curves.Set(c.ChannelKey, l1curves.NewCurve(c.Keys...))
	}
	return &l2placement.Placement{
		Name:              p.Name,
		Curves:            curves,
		Start:             p.Start,
		ClipIn:            p.ClipIn,
		Duration:          p.Duration,
		TimeScale:         scale,
		PreExtrapolation:  p.PreExtrapolation,
		PostExtrapolation: p.PostExtrapolation,
	}
}

// Offset returns the root offset, or nil when the job has none.
func (j *Job) Offset() *l6offset.Offset {
	o := j.RootOffset
	if o == nil {
		return nil
	}
	var t r3.Vec
	if len(o.Translation) == 3 {
		t = r3.Vec{X: o.Translation[0], Y: o.Translation[1], Z: o.Translation[2]}
	}
	rot := quat.Number{Real: 1}
	switch {
	case len(o.Rotation) == 4:
		rot = quat.Number{Real: o.Rotation[3], Imag: o.Rotation[0], Jmag: o.Rotation[1], Kmag: o.Rotation[2]}
	case len(o.Euler) == 3:
		rot = l6offset.RotationFromEuler(o.Euler[0], o.Euler[1], o.Euler[2])
	}
	off := l6offset.NewOffset(t, rot)
	return &off
}
