// SPDX-License-Identifier: EPL-2.0

package audtrack_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrack"
	"github.com/ik5/audtrack/config"
	"github.com/ik5/audtrack/device"
	"github.com/ik5/audtrack/pcm"
)

func newExampleEngine(dir string) (*audtrack.Engine, *device.Loopback) {
	cfg := config.Default()
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.FFmpegPath = ""

	log := logrus.New()
	log.SetOutput(io.Discard)

	sink := device.NewLoopback()
	eng, err := audtrack.New(cfg, audtrack.WithSink(sink), audtrack.WithLogger(log))
	if err != nil {
		panic(err)
	}

	return eng, sink
}

// Example_editAndPeaks opens a short mono clip, cuts three frames out of
// it and renders peaks for a waveform view.
func Example_editAndPeaks() {
	dir, _ := os.MkdirTemp("", "audtrack-example")
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "clip.wav")
	_ = pcm.WriteFile(src, 8000, 1, []float32{0, 0.5, -1, 1, 0.25, -0.25, 0.75, 0.1})

	eng, _ := newExampleEngine(dir)
	defer eng.Shutdown()

	h, err := eng.OpenTrack(context.Background(), src)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("removed:", eng.Clip(h, 2, 4))
	info, _ := eng.Info(h)
	fmt.Println("frames:", info.Frames)
	fmt.Println("peaks:", eng.GetPeaks(h, 2))
	// Output:
	// removed: 3
	// frames: 5
	// peaks: [[0 0.5 -0.25 0.75 0.1 0.1]]
}

// Example_playback plays a track through a loopback sink with a volume
// effect.
func Example_playback() {
	dir, _ := os.MkdirTemp("", "audtrack-example")
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "tone.wav")
	_ = pcm.WriteFile(src, 8000, 1, []float32{0.25, 0.25, 0.25, 0.25})

	eng, sink := newExampleEngine(dir)
	defer eng.Shutdown()

	h, _ := eng.OpenTrack(context.Background(), src)
	eng.AddEffect(h, "volume")
	eng.Effect(h, "volume").(interface{ SetGain(float32) }).SetGain(2)

	if err := eng.Play(h); err != nil {
		fmt.Println(err)
		return
	}

	out := sink.Pull(2)
	fmt.Println("left:", out[0][0], "position:", eng.GetPosition(h), "state:", eng.State(h))
	// Output: left: 0.5 position: 2 state: playing
}
