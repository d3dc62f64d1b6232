// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives every other package
// builds on.
//
//   - Source, the pull-based interface for interleaved float32 PCM
//   - Registry, decoders keyed by file extension
//   - Resampler, cubic sample rate conversion
//   - MonoMixer, channel fold-down by averaging
//   - ReadAll, draining a Source into memory
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    BitDepth() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples returns the number of float32 values written, not frames.
// io.EOF marks the end of the stream and may accompany the final chunk,
// so callers always consume n before looking at err:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Resampling
//
// The Resampler interpolates between four neighbouring frames. Output
// frame k sits at source position k*srcRate/dstRate, so converting N
// frames yields floor((N-1)*dstRate/srcRate)+1 frames:
//
//	resampled := audio.NewResampler(src, 16000)
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. Values outside that range are legal
// in intermediate buffers and are only clamped when converted to integers.
package audio
