// SPDX-License-Identifier: EPL-2.0

package effects

import "strings"

// Kind enumerates the constructible units.
type Kind int

const (
	Volume Kind = iota
	Distortion
	GraphicEQ
	Reverb
)

var kindNames = [...]string{
	Volume:     "Volume",
	Distortion: "Distortion",
	GraphicEQ:  "Graphic EQ",
	Reverb:     "Reverb",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{Volume, Distortion, GraphicEQ, Reverb}
}

// normalizeName folds case and drops separators, so "Graphic EQ",
// "graphic_eq" and "GraphicEQ" compare equal.
func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

// ParseKind looks a unit kind up by name.
func ParseKind(name string) (Kind, bool) {
	key := normalizeName(name)
	if key == "" {
		return 0, false
	}

	for _, k := range Kinds() {
		if normalizeName(k.String()) == key {
			return k, true
		}
	}

	return 0, false
}
