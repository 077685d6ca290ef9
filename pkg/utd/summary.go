package utd

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/channel"
)

// ChannelStats describes the waveforms collected for one sensor. Sensor is
// one based, matching the exported column names.
type ChannelStats struct {
	Sensor   int     `json:"sensor"`
	Scans    int     `json:"scans"`
	Samples  int     `json:"samples"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	RMS      float64 `json:"rms"`
	MeanPeak float64 `json:"mean_peak"`
}

// Summary holds statistics for every channel slot, empty ones included.
type Summary struct {
	Channels []ChannelStats `json:"channels"`
	Scans    int            `json:"scans"`
}

// Channel returns the stats of the one-based sensor number.
func (s Summary) Channel(sensor int) (ChannelStats, bool) {
	if sensor < 1 || sensor > len(s.Channels) {
		return ChannelStats{}, false
	}
	return s.Channels[sensor-1], true
}

// Summarize computes per-channel statistics over a finalized set.
func Summarize(set *channel.Set) Summary {
	if set == nil {
		return Summary{}
	}
	out := Summary{Channels: make([]ChannelStats, set.Channels()), Scans: set.Total()}
	for ch := 0; ch < set.Channels(); ch++ {
		out.Channels[ch] = channelStats(ch, set)
	}
	return out
}

func channelStats(ch int, set *channel.Set) ChannelStats {
	cs := ChannelStats{Sensor: ch + 1, Scans: set.Len(ch)}
	var samples []float64
	peaks := make([]float64, 0, cs.Scans)
	for _, w := range set.Scans(ch) {
		if len(w) == 0 {
			continue
		}
		samples = append(samples, w...)
		peaks = append(peaks, math.Max(math.Abs(floats.Min(w)), math.Abs(floats.Max(w))))
	}
	cs.Samples = len(samples)
	if cs.Samples == 0 {
		return cs
	}
	cs.Min = floats.Min(samples)
	cs.Max = floats.Max(samples)
	cs.RMS = math.Sqrt(floats.Dot(samples, samples) / float64(cs.Samples))
	cs.MeanPeak = stat.Mean(peaks, nil)
	if cs.Samples > 1 {
		cs.Mean, cs.StdDev = stat.MeanStdDev(samples, nil)
	} else {
		cs.Mean = samples[0]
	}
	return cs
}
