// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audtrack/audio"
)

// HeaderSize is the length of everything the writer emits before sample data.
const HeaderSize = 58

// Offsets of the size fields patched on Close.
const (
	riffSizeOffset  = 4
	factCountOffset = 46
	dataSizeOffset  = 54
)

func putHeader(dst []byte, sampleRate, channels int, dataBytes uint32) {
	blockAlign := uint16(channels * 4)
	frames := dataBytes / uint32(blockAlign)

	copy(dst[0:4], "RIFF")
	binary.LittleEndian.PutUint32(dst[riffSizeOffset:], HeaderSize-8+dataBytes)
	copy(dst[8:12], "WAVE")

	copy(dst[12:16], "fmt ")
	binary.LittleEndian.PutUint32(dst[16:20], 18)
	binary.LittleEndian.PutUint16(dst[20:22], FormatFloat)
	binary.LittleEndian.PutUint16(dst[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(dst[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(dst[28:32], uint32(sampleRate)*uint32(blockAlign))
	binary.LittleEndian.PutUint16(dst[32:34], blockAlign)
	binary.LittleEndian.PutUint16(dst[34:36], 32)
	binary.LittleEndian.PutUint16(dst[36:38], 0) // cbSize

	copy(dst[38:42], "fact")
	binary.LittleEndian.PutUint32(dst[42:46], 4)
	binary.LittleEndian.PutUint32(dst[factCountOffset:], frames)

	copy(dst[50:54], "data")
	binary.LittleEndian.PutUint32(dst[dataSizeOffset:], dataBytes)
}

func putSamples(dst []byte, samples []float32) {
	for i, v := range samples {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
}

func validate(sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 || channels > math.MaxUint16/4 {
		return fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidFormat, sampleRate, channels)
	}
	return nil
}

// Encode writes a complete float WAVE file holding samples.
func Encode(w io.Writer, sampleRate, channels int, samples []float32) error {
	if err := validate(sampleRate, channels); err != nil {
		return err
	}

	samples = samples[:len(samples)-len(samples)%channels]

	header := make([]byte, HeaderSize)
	putHeader(header, sampleRate, channels, uint32(len(samples)*4))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing WAVE header: %w", err)
	}

	const chunkSize = 8192
	buf := make([]byte, min(len(samples), chunkSize)*4)
	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		putSamples(buf, chunk)
		if _, err := w.Write(buf[:len(chunk)*4]); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return nil
}

// Writer streams float samples to a seekable destination.
type Writer struct {
	ws         io.WriteSeeker
	sampleRate int
	channels   int
	dataBytes  int64
	buf        []byte
	closed     bool
}

// NewWriter writes a provisional header to ws and returns a Writer
// positioned at the start of the data chunk.
func NewWriter(ws io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if err := validate(sampleRate, channels); err != nil {
		return nil, err
	}

	header := make([]byte, HeaderSize)
	putHeader(header, sampleRate, channels, 0)
	if _, err := ws.Write(header); err != nil {
		return nil, fmt.Errorf("writing WAVE header: %w", err)
	}

	return &Writer{
		ws:         ws,
		sampleRate: sampleRate,
		channels:   channels,
		buf:        make([]byte, 0, 4096*4),
	}, nil
}

// Write appends interleaved samples.
func (w *Writer) Write(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples) == 0 {
		return nil
	}

	need := len(samples) * 4
	if cap(w.buf) < need {
		w.buf = make([]byte, need)
	}
	w.buf = w.buf[:need]
	putSamples(w.buf, samples)

	n, err := w.ws.Write(w.buf)
	w.dataBytes += int64(n)
	if err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}

	return nil
}

// Frames returns the number of whole frames written so far.
func (w *Writer) Frames() int64 {
	return w.dataBytes / int64(4*w.channels)
}

// Close patches the header sizes. It does not close the destination.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	dataBytes := uint32(min(w.dataBytes, math.MaxUint32-HeaderSize))
	header := make([]byte, HeaderSize)
	putHeader(header, w.sampleRate, w.channels, dataBytes)

	patches := []struct {
		offset int64
		field  []byte
	}{
		{riffSizeOffset, header[riffSizeOffset : riffSizeOffset+4]},
		{factCountOffset, header[factCountOffset : factCountOffset+4]},
		{dataSizeOffset, header[dataSizeOffset : dataSizeOffset+4]},
	}
	for _, p := range patches {
		if _, err := w.ws.Seek(p.offset, io.SeekStart); err != nil {
			return fmt.Errorf("seeking to WAVE header: %w", err)
		}
		if _, err := w.ws.Write(p.field); err != nil {
			return fmt.Errorf("patching WAVE header: %w", err)
		}
	}

	if _, err := w.ws.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seeking to WAVE end: %w", err)
	}

	return nil
}

// WriteSource drains src into ws as a float WAVE file and returns the
// number of frames written. The context is checked between reads.
func WriteSource(ctx context.Context, ws io.WriteSeeker, src audio.Source) (int64, error) {
	w, err := NewWriter(ws, src.SampleRate(), src.Channels())
	if err != nil {
		return 0, err
	}

	bufSize := src.BufSize()
	if bufSize <= 0 {
		bufSize = 4096
	}
	bufSize -= bufSize % src.Channels()
	if bufSize == 0 {
		bufSize = src.Channels()
	}
	buf := make([]float32, bufSize)

	stalls := 0
	for {
		if err := ctx.Err(); err != nil {
			return w.Frames(), err
		}

		n, rerr := src.ReadSamples(buf)
		if n > 0 {
			stalls = 0
			if err := w.Write(buf[:n]); err != nil {
				return w.Frames(), err
			}
		} else if rerr == nil {
			stalls++
			if stalls > 64 {
				return w.Frames(), audio.ErrNoProgress
			}
		}

		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return w.Frames(), fmt.Errorf("reading samples: %w", rerr)
		}
	}

	if err := w.Close(); err != nil {
		return w.Frames(), err
	}

	return w.Frames(), nil
}
