package channel

import (
	"fmt"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/ascan"
)

// Collector accumulates waveforms per channel in order of appearance. It is
// the only writer of the Set it builds.
type Collector struct {
	set       *Set
	finalized bool
}

// NewCollector prepares an empty collection with the given number of slots.
func NewCollector(channels int) *Collector {
	if channels <= 0 {
		panic(fmt.Sprintf("channel: invalid channel count %d", channels))
	}
	return &Collector{set: &Set{scans: make([][]ascan.Waveform, channels)}}
}

// Append adds w to the collection of channel ch. The decoder has already
// validated ch; an out-of-range index or a call after Finalize is a bug and
// panics.
func (c *Collector) Append(ch int, w ascan.Waveform) {
	if c.finalized {
		panic("channel: append after finalize")
	}
	if ch < 0 || ch >= len(c.set.scans) {
		panic(fmt.Sprintf("channel: index %d outside 0..%d", ch, len(c.set.scans)-1))
	}
	c.set.scans[ch] = append(c.set.scans[ch], w)
}

// Finalize freezes the collection and hands it off.
func (c *Collector) Finalize() *Set {
	c.finalized = true
	return c.set
}

// Set is the read-only per-channel waveform collection. Columns are channels
// (then scans inside a channel); rows are sample indexes.
type Set struct {
	scans [][]ascan.Waveform
}

// Channels returns the number of channel slots, empty ones included.
func (s *Set) Channels() int { return len(s.scans) }

// Scans returns the waveforms of channel ch in file order. Callers must not
// modify the returned slice.
func (s *Set) Scans(ch int) []ascan.Waveform {
	if ch < 0 || ch >= len(s.scans) {
		return nil
	}
	return s.scans[ch]
}

// Len is the number of waveforms collected for ch.
func (s *Set) Len(ch int) int { return len(s.Scans(ch)) }

// Total is the number of waveforms across all channels.
func (s *Set) Total() int {
	total := 0
	for _, scans := range s.scans {
		total += len(scans)
	}
	return total
}

// MaxScans is the longest per-channel waveform count.
func (s *Set) MaxScans() int {
	longest := 0
	for _, scans := range s.scans {
		if len(scans) > longest {
			longest = len(scans)
		}
	}
	return longest
}

// SampleCount is the length of the longest waveform in the set.
func (s *Set) SampleCount() int {
	longest := 0
	for _, scans := range s.scans {
		for _, w := range scans {
			if len(w) > longest {
				longest = len(w)
			}
		}
	}
	return longest
}

// Sample returns sample i of scan n on channel ch. ok is false when any index
// falls outside the collection.
func (s *Set) Sample(ch, n, i int) (float64, bool) {
	scans := s.Scans(ch)
	if n < 0 || n >= len(scans) {
		return 0, false
	}
	w := scans[n]
	if i < 0 || i >= len(w) {
		return 0, false
	}
	return w[i], true
}

// Equal reports whether both sets hold the same waveforms in the same order.
func (s *Set) Equal(other *Set) bool {
	if s.Channels() != other.Channels() {
		return false
	}
	for ch := range s.scans {
		if len(s.scans[ch]) != len(other.scans[ch]) {
			return false
		}
		for n, w := range s.scans[ch] {
			if !w.Equal(other.scans[ch][n]) {
				return false
			}
		}
	}
	return true
}
