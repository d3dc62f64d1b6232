// SPDX-License-Identifier: EPL-2.0

// Package utils holds the per-sample arithmetic shared by decoders,
// the resampler and the exporters.
package utils
