// SPDX-License-Identifier: EPL-2.0

// Package effects implements the real-time DSP units and the chain that
// applies them.
//
// Units are created from a closed set of kinds:
//
//	u := effects.New(effects.Reverb, 44100, 2)
//	chain.Add(u)
//
// Process is called from the audio callback. It never allocates and never
// fails. Parameter setters may run concurrently with Process: parameters
// are stored in atomics and picked up on the next processed sample.
//
// Buffers are interleaved and Process expects offset to be frame aligned,
// so sample offset+i belongs to channel i%channels.
package effects
