package l2placement

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
)

// DefaultTimeEpsilon is the tolerance used when comparing key times against
// window boundaries.
const DefaultTimeEpsilon = 1e-6

var (
	// ErrInvalidTimeScale rejects placements whose speed is not a positive finite number.
	ErrInvalidTimeScale = errors.New("time scale must be a positive finite number")
	// ErrNegativeDuration rejects placements with a negative or non-finite duration.
	ErrNegativeDuration = errors.New("duration must be a non-negative finite number")
)

// ExtrapolationMode decides what a placement contributes outside its active window.
type ExtrapolationMode int

const (
	None ExtrapolationMode = iota
	Hold
	Loop
	PingPong
	Continue
)

var modeNames = []string{"none", "hold", "loop", "pingpong", "continue"}

func (m ExtrapolationMode) String() string {
	if int(m) >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("ExtrapolationMode(%d)", int(m))
}

// ParseExtrapolationMode maps a name to its mode. Unknown names are an error.
func ParseExtrapolationMode(s string) (ExtrapolationMode, error) {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	if name == "" {
		return None, nil
	}
	for i, n := range modeNames {
		if n == name {
			return ExtrapolationMode(i), nil
		}
	}
	return None, fmt.Errorf("unknown extrapolation mode %q", s)
}

// MarshalText encodes the mode by name.
func (m ExtrapolationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *ExtrapolationMode) UnmarshalText(b []byte) error {
	v, err := ParseExtrapolationMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ModeSupported reports whether the mode has defined semantics. Loop,
// PingPong and Continue are recognised but not evaluated; they behave as None.
func ModeSupported(m ExtrapolationMode) bool {
	return m == None || m == Hold
}

// Placement positions one authored channel set on the global timeline.
type Placement struct {
	Name string

	// Curves holds the authored channels in the source's own time axis.
	Curves *l1curves.ChannelSet

	Start     float64 // global start time
	ClipIn    float64 // trim offset into the source time axis
	Duration  float64 // length occupied on the global timeline
	TimeScale float64 // speed multiplier

	PreExtrapolation  ExtrapolationMode
	PostExtrapolation ExtrapolationMode
}

// End returns the global end of the active window.
func (p *Placement) End() float64 {
	return p.Start + p.Duration
}

// Window returns the active window [Start, Start+Duration].
func (p *Placement) Window() (start, end float64) {
	return p.Start, p.End()
}

// SourceEnd returns the source time that maps onto the window end.
func (p *Placement) SourceEnd() float64 {
	return p.ClipIn + p.Duration*p.TimeScale
}

// Validate checks the timing contract. Placements that fail are rejected by
// every stage rather than clamped.
func (p *Placement) Validate() error {
	if math.IsNaN(p.TimeScale) || math.IsInf(p.TimeScale, 0) || p.TimeScale <= 0 {
		return fmt.Errorf("placement %q: %w (got %v)", p.Name, ErrInvalidTimeScale, p.TimeScale)
	}
	if math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) || p.Duration < 0 {
		return fmt.Errorf("placement %q: %w (got %v)", p.Name, ErrNegativeDuration, p.Duration)
	}
	return nil
}

// Defines reports whether the placement authors a curve for key.
func (p *Placement) Defines(key l1curves.ChannelKey) bool {
	return p != nil && p.Curves.Has(key)
}
