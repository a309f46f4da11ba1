package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrNonFinite is returned when a derived quantity is NaN or infinite.
	ErrNonFinite = errors.New("non-finite derived value")
	// ErrOutOfRange is returned when a derived integer does not fit in int64.
	ErrOutOfRange = errors.New("derived value out of integer range")
)

// round rounds v to places decimals from its exact binary value, ties to
// even.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// band is one ordinal category. A value belongs to the first band, checked
// from the highest floor down, whose floor it reaches.
type band struct {
	floor float64
	label string
}

type bands []band

func (b bands) classify(v float64) string {
	for _, x := range b {
		if v >= x.floor {
			return x.label
		}
	}
	return b[len(b)-1].label
}

// maxHorizon bounds the length of any series built from a caller-supplied
// horizon.
const maxHorizon = 10000

func floorHorizon(h int64) int64 {
	if h < 1 {
		return 1
	}
	return h
}

// horizonOf floors h at 1 and rejects values above maxHorizon.
func horizonOf(name string, h int64) (int64, error) {
	h = floorHorizon(h)
	if h > maxHorizon {
		return 0, fmt.Errorf("%w: %s = %d exceeds %d", ErrOutOfRange, name, h, maxHorizon)
	}
	return h, nil
}

// finiteGuard records the first non-finite quantity it sees.
type finiteGuard struct {
	err error
}

func (g *finiteGuard) check(name string, v float64) float64 {
	if g.err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		g.err = fmt.Errorf("%w: %s = %v", ErrNonFinite, name, v)
	}
	return v
}
