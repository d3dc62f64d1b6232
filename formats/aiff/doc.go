// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files with github.com/go-audio/aiff.
// 8, 16, 24 and 32-bit integer samples are supported.
package aiff
