package ascan

import (
	"math"
	"testing"
)

func TestSampleBoundaries(t *testing.T) {
	for _, p := range []Policy{SignedCentered, MinMax} {
		if got := p.Sample(0x00); got != -1.0 {
			t.Fatalf("%s: byte 0 -> %v, want -1", p, got)
		}
		if got := p.Sample(0xFF); got != 1.0 {
			t.Fatalf("%s: byte 255 -> %v, want 1", p, got)
		}
		if got := p.Sample(0x80); math.Abs(got) > 1.0/127 {
			t.Fatalf("%s: byte 128 -> %v, want ~0", p, got)
		}
	}
}

func TestSampleRange(t *testing.T) {
	for _, p := range []Policy{SignedCentered, MinMax} {
		for b := 0; b <= 0xFF; b++ {
			s := p.Sample(byte(b))
			if s < -1 || s > 1 {
				t.Fatalf("%s: byte %d -> %v out of range", p, b, s)
			}
		}
	}
}

func TestMinMaxRounding(t *testing.T) {
	// 2*64/255-1 = -0.498039...
	if got := MinMax.Sample(64); got != -0.5 {
		t.Fatalf("unexpected rounded sample %v", got)
	}
}

func TestSignedCenteredMatchesFormula(t *testing.T) {
	if got, want := SignedCentered.Sample(64), float64(64-128)/127; got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNormalizeLength(t *testing.T) {
	w := SignedCentered.Normalize([]byte{0, 255, 128, 1})
	if len(w) != 4 {
		t.Fatalf("unexpected length %d", len(w))
	}
	if !w.Equal(Waveform{-1, 1, 0, float64(1-128) / 127}) {
		t.Fatalf("unexpected waveform %v", w)
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{
		"signed-centered": SignedCentered,
		" A ":             SignedCentered,
		"min-max":         MinMax,
		"minmax":          MinMax,
	}
	for in, want := range cases {
		got, err := ParsePolicy(in)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParsePolicy(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParsePolicy("log"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
