// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// WAVE format tags.
const (
	FormatPCM        = 0x0001
	FormatFloat      = 0x0003
	FormatExtensible = 0xFFFE
)

// unboundedData marks a data chunk whose length was not known when it was written.
const unboundedData = 0xFFFFFFFF

// Header describes the sample layout of a WAVE stream.
type Header struct {
	// Format is the effective format tag; for extensible streams it is the
	// tag carried by the sub-format GUID.
	Format        uint16
	Channels      int
	SampleRate    int
	BitsPerSample int
	BlockAlign    int
	// DataSize is the data chunk length in bytes, or -1 when unknown.
	DataSize int64
}

// IsFloat32 reports whether the samples are 32-bit IEEE float.
func (h Header) IsFloat32() bool {
	return h.Format == FormatFloat && h.BitsPerSample == 32
}

// Frames returns the number of frames in the data chunk, or -1 when unknown.
func (h Header) Frames() int64 {
	if h.DataSize < 0 || h.BlockAlign <= 0 {
		return -1
	}
	return h.DataSize / int64(h.BlockAlign)
}

// ReadHeader consumes r up to the first byte of sample data.
// The returned reader yields exactly the data chunk payload.
func ReadHeader(r io.Reader) (Header, io.Reader, error) {
	var hdr Header

	parser := riff.New(r)
	if err := parser.ParseHeaders(); err != nil {
		return hdr, nil, fmt.Errorf("%w: %w", ErrNotWave, err)
	}
	if parser.Format != riff.WavFormatID {
		return hdr, nil, ErrNotWave
	}

	haveFormat := false
	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return hdr, nil, ErrMissingData
			}
			return hdr, nil, fmt.Errorf("%w: %w", ErrMissingData, err)
		}

		switch chunk.ID {
		case riff.FmtID:
			if err := parseFormat(&hdr, chunk); err != nil {
				return hdr, nil, err
			}
			haveFormat = true

		case riff.DataFormatID:
			if !haveFormat {
				return hdr, nil, ErrMissingFormat
			}
			// chunk.R is the whole stream and chunk.Size is already padded
			// to even, so an unbounded size of 0xFFFFFFFF wraps to zero.
			size := uint32(chunk.Size)
			if size == 0 || size == unboundedData {
				hdr.DataSize = -1
				return hdr, r, nil
			}
			hdr.DataSize = int64(size)
			return hdr, io.LimitReader(r, int64(size)), nil

		default:
			// chunk.R is not limited to the chunk.
			if _, err := io.CopyN(io.Discard, chunk.R, int64(chunk.Size)); err != nil {
				return hdr, nil, fmt.Errorf("skipping %q chunk: %w", chunk.ID[:], err)
			}
		}
	}
}

func parseFormat(hdr *Header, chunk *riff.Chunk) error {
	if chunk.Size < 16 {
		return ErrInvalidFormat
	}

	body := make([]byte, chunk.Size)
	if _, err := io.ReadFull(chunk.R, body); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	hdr.Format = binary.LittleEndian.Uint16(body[0:2])
	hdr.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
	hdr.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
	hdr.BlockAlign = int(binary.LittleEndian.Uint16(body[12:14]))
	hdr.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))

	// WAVE_FORMAT_EXTENSIBLE: cbSize(2) validBits(2) channelMask(4) subFormat(16),
	// the first two bytes of the GUID carry the real format tag.
	if hdr.Format == FormatExtensible {
		if len(body) < 26 {
			return ErrInvalidFormat
		}
		hdr.Format = binary.LittleEndian.Uint16(body[24:26])
	}

	if hdr.Channels <= 0 || hdr.SampleRate <= 0 || hdr.BlockAlign <= 0 {
		return ErrInvalidFormat
	}

	return nil
}
