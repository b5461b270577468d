package domain

import (
	"fmt"
	"strings"
)

// Finger names one finger in the device service's fixed catalog.
type Finger string

const (
	FingerRightThumb  Finger = "right-thumb"
	FingerRightIndex  Finger = "right-index-finger"
	FingerRightMiddle Finger = "right-middle-finger"
	FingerRightRing   Finger = "right-ring-finger"
	FingerRightLittle Finger = "right-little-finger"
	FingerLeftThumb   Finger = "left-thumb"
	FingerLeftIndex   Finger = "left-index-finger"
	FingerLeftMiddle  Finger = "left-middle-finger"
	FingerLeftRing    Finger = "left-ring-finger"
	FingerLeftLittle  Finger = "left-little-finger"

	// FingerAll is the bulk-delete pseudo identifier. It is never sent to the
	// device as a finger name.
	FingerAll Finger = "all"
)

var fingerCatalog = []Finger{
	FingerRightThumb,
	FingerRightIndex,
	FingerRightMiddle,
	FingerRightRing,
	FingerRightLittle,
	FingerLeftThumb,
	FingerLeftIndex,
	FingerLeftMiddle,
	FingerLeftRing,
	FingerLeftLittle,
}

var fingerLabels = map[Finger]string{
	FingerRightThumb:  "Right thumb",
	FingerRightIndex:  "Right index finger",
	FingerRightMiddle: "Right middle finger",
	FingerRightRing:   "Right ring finger",
	FingerRightLittle: "Right little finger",
	FingerLeftThumb:   "Left thumb",
	FingerLeftIndex:   "Left index finger",
	FingerLeftMiddle:  "Left middle finger",
	FingerLeftRing:    "Left ring finger",
	FingerLeftLittle:  "Left little finger",
	FingerAll:         "All fingers",
}

// AllFingers returns the ten enrollable fingers in catalog order.
// The returned slice is a copy.
func AllFingers() []Finger {
	out := make([]Finger, len(fingerCatalog))
	copy(out, fingerCatalog)
	return out
}

// DefaultFinger is the finger preselected by front ends.
func DefaultFinger() Finger { return FingerRightIndex }

// Label returns a human readable name.
func (f Finger) Label() string {
	if l, ok := fingerLabels[f]; ok {
		return l
	}
	return string(f)
}

// IsEnrollable reports whether f is one of the ten catalog fingers.
func (f Finger) IsEnrollable() bool {
	for _, c := range fingerCatalog {
		if c == f {
			return true
		}
	}
	return false
}

// ParseFinger accepts a catalog identifier or "all".
func ParseFinger(s string) (Finger, error) {
	f := Finger(strings.ToLower(strings.TrimSpace(s)))
	if f == FingerAll || f.IsEnrollable() {
		return f, nil
	}
	return "", fmt.Errorf("unknown finger %q", s)
}

// FingersFromNames maps device-reported names back to the catalog, dropping
// anything it does not recognise.
func FingersFromNames(names []string) []Finger {
	out := make([]Finger, 0, len(names))
	for _, n := range names {
		if f := Finger(n); f.IsEnrollable() {
			out = append(out, f)
		}
	}
	return out
}
