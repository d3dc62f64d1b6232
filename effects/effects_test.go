// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   Kind
		wantOK bool
	}{
		{"Volume", Volume, true},
		{"volume", Volume, true},
		{"DISTORTION", Distortion, true},
		{"Graphic EQ", GraphicEQ, true},
		{"graphic_eq", GraphicEQ, true},
		{"graphiceq", GraphicEQ, true},
		{"reverb", Reverb, true},
		{"echo", 0, false},
		{"", 0, false},
		{"   ", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseKind(tt.name)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseKind(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNew_EveryKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		u := New(k, 44100, 2)
		if u == nil {
			t.Fatalf("New(%v) = nil", k)
		}
		if u.Kind() != k || u.Name() != k.String() {
			t.Errorf("New(%v) has kind %v name %q", k, u.Kind(), u.Name())
		}
		if !u.Enabled() {
			t.Errorf("New(%v) is disabled", k)
		}
	}

	if New(Kind(42), 44100, 2) != nil {
		t.Error("New(unknown) != nil")
	}
	if Kind(42).String() != "Unknown" {
		t.Errorf("Kind(42).String() = %q", Kind(42).String())
	}
}

func TestVolume_UpperClampOnly(t *testing.T) {
	t.Parallel()

	v := NewVolume()
	v.SetGain(2)

	buf := []float32{0.6, -0.6, 0.25, -0.25}
	v.Process(buf, 0, len(buf))

	want := []float32{1, -1.2, 0.5, -0.5}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestVolume_UnityFixedPoint(t *testing.T) {
	t.Parallel()

	v := NewVolume()
	buf := []float32{1, 0.5, -1}
	v.Process(buf, 0, len(buf))

	if buf[0] != 1 || buf[1] != 0.5 || buf[2] != -1 {
		t.Errorf("unity gain changed samples: %v", buf)
	}

	v.SetGain(-3)
	if v.Gain() != 0 {
		t.Errorf("Gain() = %v after negative SetGain, want 0", v.Gain())
	}
}

func TestVolume_RespectsWindow(t *testing.T) {
	t.Parallel()

	v := NewVolume()
	v.SetGain(0)

	buf := []float32{1, 1, 1, 1, 1}
	v.Process(buf, 1, 2)
	v.Process(buf, 4, 10)
	v.Process(buf, 9, 1)

	want := []float32{1, 0, 0, 1, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestDistortion(t *testing.T) {
	t.Parallel()

	d := NewDistortion()
	buf := []float32{0.5, -0.5, 0.1, 0}
	d.Process(buf, 0, len(buf))

	want := []float32{0.8, -0.8, 0.4, 0}
	for i := range want {
		if math.Abs(float64(buf[i]-want[i])) > 1e-6 {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestEqualizer_FlatIsIdentity(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{8000, 44100, 48000} {
		eq := NewEqualizer(rate, 2)

		rng := rand.New(rand.NewPCG(1, 2))
		in := make([]float32, 2*4096)
		for i := range in {
			in[i] = rng.Float32()*2 - 1
		}
		out := append([]float32(nil), in...)

		eq.Process(out, 0, len(out))

		for i := range in {
			if math.Abs(float64(out[i]-in[i])) > 1e-5 {
				t.Fatalf("rate %d: sample %d = %v, want %v", rate, i, out[i], in[i])
			}
		}
	}
}

func rms(s []float32) float64 {
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

func sine(freq float64, rate, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.25 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestEqualizer_BoostAndCut(t *testing.T) {
	t.Parallel()

	const rate = 44100
	in := sine(1000, rate, rate/2)
	settle := rate / 10

	boost := NewEqualizer(rate, 1)
	boost.SetBandGain(5, 12)
	up := append([]float32(nil), in...)
	boost.Process(up, 0, len(up))

	cut := NewEqualizer(rate, 1)
	cut.SetBandGain(5, -12)
	down := append([]float32(nil), in...)
	cut.Process(down, 0, len(down))

	ref := rms(in[settle:])
	// A peaking filter reaches its full gain at the center frequency: ±12 dB ≈ ×3.98.
	if got := rms(up[settle:]) / ref; math.Abs(got-3.98) > 0.2 {
		t.Errorf("boost ratio = %.3f, want ≈3.98", got)
	}
	if got := rms(down[settle:]) / ref; math.Abs(got-0.251) > 0.02 {
		t.Errorf("cut ratio = %.3f, want ≈0.251", got)
	}

	if boost.BandGain(5) != 12 {
		t.Errorf("BandGain(5) = %v, want 12", boost.BandGain(5))
	}
}

func TestEqualizer_InvalidBandIgnored(t *testing.T) {
	t.Parallel()

	eq := NewEqualizer(44100, 1)
	eq.SetBandGain(-1, 6)
	eq.SetBandGain(Bands, 6)

	if eq.BandGain(-1) != 0 || eq.BandGain(Bands) != 0 {
		t.Error("out-of-range band reported a gain")
	}
	for b := range Bands {
		if eq.BandGain(b) != 0 {
			t.Errorf("band %d gain = %v, want 0", b, eq.BandGain(b))
		}
	}
}

func TestEqualizer_HighBandsStableAtLowRates(t *testing.T) {
	t.Parallel()

	eq := NewEqualizer(8000, 1)
	for b := range Bands {
		eq.SetBandGain(b, 12)
	}

	buf := sine(440, 8000, 8000)
	eq.Process(buf, 0, len(buf))

	for i, v := range buf {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) || math.Abs(float64(v)) > 100 {
			t.Fatalf("sample %d = %v, filter bank diverged", i, v)
		}
	}
}

func TestEqualizer_ChannelsAreIndependent(t *testing.T) {
	t.Parallel()

	eq := NewEqualizer(44100, 2)
	eq.SetBandGain(3, 9)

	mono := NewEqualizer(44100, 1)
	mono.SetBandGain(3, 9)

	left := sine(250, 44100, 2048)
	stereo := make([]float32, 2*len(left))
	for i, v := range left {
		stereo[2*i] = v
	}

	eq.Process(stereo, 0, len(stereo))
	mono.Process(left, 0, len(left))

	for i := range left {
		if math.Abs(float64(stereo[2*i]-left[i])) > 1e-6 {
			t.Fatalf("frame %d left = %v, mono = %v", i, stereo[2*i], left[i])
		}
		if math.Abs(float64(stereo[2*i+1])) > 1e-9 {
			t.Fatalf("frame %d right = %v, want silence", i, stereo[2*i+1])
		}
	}
}

func TestDelayLengths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate int
		want [4]int
	}{
		{1000, [4]int{29, 37, 41, 53}},
		{44100, [4]int{1279, 1637, 1811, 2339}},
		{10, [4]int{2, 3, 5, 7}},
	}

	for _, tt := range tests {
		if got := DelayLengths(tt.rate); got != tt.want {
			t.Errorf("DelayLengths(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestReverb_ImpulseResponse(t *testing.T) {
	t.Parallel()

	r := NewReverb(1000, 1)
	buf := make([]float32, 100)
	buf[0] = 1
	r.Process(buf, 0, len(buf))

	const eps = 1e-6
	checks := map[int]float32{
		0:  0.7,              // dry path
		1:  0,                // nothing delayed yet
		29: 0.3 * 0.25,       // first pass of the 29-sample line
		37: 0.3 * 0.25,       // first pass of the 37-sample line
		58: 0.3 * 0.25 * 0.5, // second pass of the 29-sample line, decayed once
	}
	for i, want := range checks {
		if math.Abs(float64(buf[i]-want)) > eps {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want)
		}
	}
}

func TestReverb_ZeroWetIsIdentity(t *testing.T) {
	t.Parallel()

	r := NewReverb(44100, 2)
	r.SetWetMix(0)

	buf := sine(440, 44100, 512)
	want := append([]float32(nil), buf...)
	r.Process(buf, 0, len(buf))

	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestReverb_ParameterClamping(t *testing.T) {
	t.Parallel()

	r := NewReverb(44100, 1)
	r.SetWetMix(3)
	r.SetDecay(2)

	if r.WetMix() != 1 {
		t.Errorf("WetMix() = %v, want 1", r.WetMix())
	}
	if r.Decay() >= 1 {
		t.Errorf("Decay() = %v, want < 1", r.Decay())
	}
}

func TestReverb_InstancesDoNotShareState(t *testing.T) {
	t.Parallel()

	a := NewReverb(1000, 1)
	b := NewReverb(1000, 1)

	impulse := make([]float32, 40)
	impulse[0] = 1
	a.Process(impulse, 0, len(impulse))

	silence := make([]float32, 40)
	b.Process(silence, 0, len(silence))

	for i, v := range silence {
		if v != 0 {
			t.Fatalf("second instance produced %v at %d", v, i)
		}
	}
}

func TestUnits_ProcessDoesNotAllocate(t *testing.T) {
	buf := sine(440, 44100, 4096)

	for _, k := range Kinds() {
		u := New(k, 44100, 2)
		allocs := testing.AllocsPerRun(100, func() {
			u.Process(buf, 0, len(buf))
		})
		if allocs != 0 {
			t.Errorf("%v.Process allocated %.0f times per run", k, allocs)
		}
	}
}

func BenchmarkEqualizer_Stereo(b *testing.B) {
	eq := NewEqualizer(44100, 2)
	eq.SetBandGain(2, 6)
	buf := sine(440, 44100, 2*1024)

	b.ReportAllocs()

	for b.Loop() {
		eq.Process(buf, 0, len(buf))
	}
}

func BenchmarkReverb_Stereo(b *testing.B) {
	r := NewReverb(44100, 2)
	buf := sine(440, 44100, 2*1024)

	b.ReportAllocs()

	for b.Loop() {
		r.Process(buf, 0, len(buf))
	}
}
