// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// maxStalls bounds how many consecutive (0, nil) reads ReadAll tolerates.
const maxStalls = 64

// ReadAll drains src into a single interleaved buffer.
//
// sizeHint is the expected number of samples (0 when unknown) and only
// sets the initial capacity; the result is always truncated to what was
// actually read, never zero-padded to the hint. The context is checked
// between reads so long decodes can be abandoned.
func ReadAll(ctx context.Context, src Source, sizeHint int) ([]float32, error) {
	bufSize := src.BufSize()
	if bufSize <= 0 {
		bufSize = 4096
	}
	if ch := src.Channels(); ch > 0 && bufSize%ch != 0 {
		bufSize -= bufSize % ch
		if bufSize == 0 {
			bufSize = ch
		}
	}

	out := make([]float32, 0, max(sizeHint, 0))
	buf := make([]float32, bufSize)
	stalls := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := src.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
			stalls = 0
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}

		if n == 0 {
			stalls++
			if stalls > maxStalls {
				return nil, ErrNoProgress
			}
		}
	}

	return out, nil
}
