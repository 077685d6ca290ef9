package record

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/ascan"
)

// ChannelBytes is the width of the channel-index field in every variant.
const ChannelBytes = 1

// DefaultChannels is the sensor count of the 8-channel scanner.
const DefaultChannels = 8

var ErrInvalidLayout = errors.New("invalid record layout")

// Layout describes the fixed field sizes of one .utd format variant together
// with the normalization policy applied to its payload. Layouts are values;
// the decoder keeps its own copy.
type Layout struct {
	Name         string
	HeaderBytes  int
	ControlBytes int
	EncoderBytes int
	DataBytes    int
	Channels     int
	Policy       ascan.Policy
}

var presets = map[string]Layout{
	"legacy": {
		Name:         "legacy",
		HeaderBytes:  4,
		ControlBytes: 3,
		DataBytes:    2044,
		Channels:     DefaultChannels,
		Policy:       ascan.SignedCentered,
	},
	"encoder": {
		Name:         "encoder",
		HeaderBytes:  4,
		ControlBytes: 3,
		EncoderBytes: 4,
		DataBytes:    1017,
		Channels:     DefaultChannels,
		Policy:       ascan.MinMax,
	},
	"encoder-wide": {
		Name:         "encoder-wide",
		HeaderBytes:  4,
		ControlBytes: 3,
		DataBytes:    1021,
		Channels:     DefaultChannels,
		Policy:       ascan.MinMax,
	},
}

// Legacy returns the layout of the first-generation 8-channel logs.
func Legacy() Layout { return presets["legacy"] }

// Preset looks up a named layout.
func Preset(name string) (Layout, error) {
	l, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Layout{}, fmt.Errorf("%w: unknown variant %q (known: %s)", ErrInvalidLayout, name, strings.Join(PresetNames(), ", "))
	}
	return l, nil
}

// PresetNames lists the known variant names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecordSize is the number of bytes consumed per record.
func (l Layout) RecordSize() int {
	return l.HeaderBytes + ChannelBytes + l.ControlBytes + l.EncoderBytes + l.DataBytes
}

// payloadOffset is where the data block starts inside a record.
func (l Layout) payloadOffset() int {
	return l.HeaderBytes + ChannelBytes + l.ControlBytes + l.EncoderBytes
}

// Validate rejects layouts the decoder cannot walk.
func (l Layout) Validate() error {
	switch {
	case l.HeaderBytes < 0, l.ControlBytes < 0, l.EncoderBytes < 0:
		return fmt.Errorf("%w: negative field size", ErrInvalidLayout)
	case l.DataBytes <= 0:
		return fmt.Errorf("%w: data bytes must be positive, got %d", ErrInvalidLayout, l.DataBytes)
	case l.Channels <= 0 || l.Channels > 256:
		return fmt.Errorf("%w: channel count must be in 1..256, got %d", ErrInvalidLayout, l.Channels)
	case l.Policy != ascan.SignedCentered && l.Policy != ascan.MinMax:
		return fmt.Errorf("%w: unknown policy %d", ErrInvalidLayout, int(l.Policy))
	}
	return nil
}

func (l Layout) String() string {
	name := l.Name
	if name == "" {
		name = "custom"
	}
	return fmt.Sprintf("%s(header=%d control=%d encoder=%d data=%d channels=%d policy=%s)",
		name, l.HeaderBytes, l.ControlBytes, l.EncoderBytes, l.DataBytes, l.Channels, l.Policy)
}
