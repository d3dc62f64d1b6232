// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/pcm"
)

// DefaultBinary is used when Decoder.Binary is empty.
const DefaultBinary = "ffmpeg"

// ErrNotInstalled indicates the ffmpeg binary could not be found.
var ErrNotInstalled = errors.New("ffmpeg binary not found")

// Decoder runs ffmpeg as a subprocess.
type Decoder struct {
	Binary string
}

func (d Decoder) binary() (string, error) {
	name := d.Binary
	if name == "" {
		name = DefaultBinary
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotInstalled, err)
	}
	return path, nil
}

// Available reports whether the configured binary can be executed.
func (d Decoder) Available() bool {
	_, err := d.binary()
	return err == nil
}

func args(input string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-v", "error",
		"-i", input,
		"-vn", "-f", "wav", "-acodec", "pcm_f32le",
		"pipe:1",
	}
}

// Decode pipes r into ffmpeg. Containers that need seeking decode more
// reliably through Open.
func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	return d.start(context.Background(), "pipe:0", r)
}

// Open decodes the file at path.
func (d Decoder) Open(ctx context.Context, path string) (audio.Source, error) {
	return d.start(ctx, path, nil)
}

func (d Decoder) start(ctx context.Context, input string, stdin io.Reader) (audio.Source, error) {
	bin, err := d.binary()
	if err != nil {
		return nil, err
	}

	// The process outlives ctx only until Close cancels it.
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, bin, args(input)...)
	cmd.Stdin = stdin
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	p := &process{cmd: cmd, cancel: cancel, stderr: stderr}

	h, data, err := pcm.ReadHeader(bufio.NewReaderSize(stdout, 64*1024))
	if err != nil {
		werr := p.stop()
		return nil, fmt.Errorf("reading ffmpeg output: %w%s", err, p.detail(werr))
	}

	src, err := pcm.NewSource(h, data)
	if err != nil {
		_ = p.stop()
		return nil, err
	}

	return &source{Source: src, proc: p}, nil
}

type process struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stderr *bytes.Buffer
	once   sync.Once
	err    error
}

// stop kills ffmpeg if still running and reaps it.
func (p *process) stop() error {
	p.once.Do(func() {
		p.cancel()
		p.err = p.cmd.Wait()
	})
	return p.err
}

// finish reaps ffmpeg after its output was fully consumed.
func (p *process) finish() error {
	p.once.Do(func() {
		p.err = p.cmd.Wait()
		p.cancel()
	})
	return p.err
}

func (p *process) detail(err error) string {
	msg := strings.TrimSpace(p.stderr.String())
	switch {
	case msg != "":
		return ": " + msg
	case err != nil:
		return ": " + err.Error()
	default:
		return ""
	}
}

type source struct {
	*pcm.Source
	proc *process
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	n, err := s.Source.ReadSamples(dst)
	if errors.Is(err, io.EOF) {
		if werr := s.proc.finish(); werr != nil {
			return n, fmt.Errorf("ffmpeg failed%s", s.proc.detail(werr))
		}
	}
	return n, err
}

func (s *source) Close() error {
	_ = s.proc.stop()
	return nil
}
