package ascan

import (
	"fmt"
	"math"
	"strings"
)

// Waveform is one normalized A-scan: a sample per payload byte in [-1, 1].
type Waveform []float64

const (
	minByte = 0x00
	maxByte = 0xFF
	midByte = 0x80
)

// Policy selects how raw payload bytes map onto [-1, 1].
type Policy int

const (
	// SignedCentered computes (b-128)/127. Byte 0 would land at -1.0079 and is
	// clamped to -1.
	SignedCentered Policy = iota
	// MinMax computes 2*(b-min)/(max-min)-1 rounded to two decimals.
	MinMax
)

func (p Policy) String() string {
	switch p {
	case SignedCentered:
		return "signed-centered"
	case MinMax:
		return "min-max"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "signed-centered", "signed", "a":
		return SignedCentered, nil
	case "min-max", "minmax", "b":
		return MinMax, nil
	default:
		return Policy(0), fmt.Errorf("unsupported normalization policy %q", s)
	}
}

// Sample normalizes a single byte.
func (p Policy) Sample(b byte) float64 {
	switch p {
	case MinMax:
		v := 2*float64(int(b)-minByte)/float64(maxByte-minByte) - 1
		return clamp(roundTo(v, 2))
	default:
		return clamp(float64(int(b)-midByte) / float64(midByte-1))
	}
}

// Normalize converts a raw payload into a Waveform of the same length.
func (p Policy) Normalize(payload []byte) Waveform {
	out := make(Waveform, len(payload))
	for i, b := range payload {
		out[i] = p.Sample(b)
	}
	return out
}

// Equal reports whether both waveforms hold the same samples.
func (w Waveform) Equal(other Waveform) bool {
	if len(w) != len(other) {
		return false
	}
	for i := range w {
		if w[i] != other[i] {
			return false
		}
	}
	return true
}

func clamp(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}

func roundTo(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
