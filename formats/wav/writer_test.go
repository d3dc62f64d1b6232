// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePCM16_InvalidLayout(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := WritePCM16(f, 0, 1, nil); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("WritePCM16() error = %v, want ErrInvalidLayout", err)
	}
}

func TestWriteFloatAsPCM16_Clamps(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clamped.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFloatAsPCM16(f, 8000, 1, []float32{2, -2, 0.5}); err != nil {
		t.Fatalf("WriteFloatAsPCM16() error = %v", err)
	}
	_ = f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := collect(t, src)
	want := []float32{32767.0 / 32768.0, -1, 16383.0 / 32768.0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}
