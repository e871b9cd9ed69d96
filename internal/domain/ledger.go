package domain

import (
	"slices"
	"strings"
)

// FloorKey addresses one travel-time lower bound. Every dimension the
// optimization layer indexes by is an explicit field, so lookups are checked
// at compile time rather than assembled positionally.
type FloorKey struct {
	Year        int
	Product     string
	Origin      string
	Destination string
	PathID      string
	NodeID      string
	Technology  string
	Fuel        string
	Generation  int
}

// TravelTimeFloor is one derived lower-bound record: the minimum cumulative
// fleet travel time the optimization layer must allow at the keyed node.
type TravelTimeFloor struct {
	FloorKey
	MinTravelTimeHours float64
}

// TravelTimeLedger accumulates floors, keeping the strongest (largest) bound
// per key. The floor at a node is the maximum over all break requirements
// that reach it.
type TravelTimeLedger struct {
	floors map[FloorKey]float64
}

func NewTravelTimeLedger() *TravelTimeLedger {
	return &TravelTimeLedger{floors: make(map[FloorKey]float64)}
}

// Raise records hours as the bound for key unless a stronger bound is already
// present.
func (l *TravelTimeLedger) Raise(key FloorKey, hours float64) {
	if cur, ok := l.floors[key]; ok && cur >= hours {
		return
	}
	l.floors[key] = hours
}

// Get returns the bound for key.
func (l *TravelTimeLedger) Get(key FloorKey) (float64, bool) {
	v, ok := l.floors[key]
	return v, ok
}

// Len returns the number of distinct keyed bounds.
func (l *TravelTimeLedger) Len() int { return len(l.floors) }

// Records flattens the ledger into a deterministically ordered slice.
func (l *TravelTimeLedger) Records() []TravelTimeFloor {
	out := make([]TravelTimeFloor, 0, len(l.floors))
	for k, v := range l.floors {
		out = append(out, TravelTimeFloor{FloorKey: k, MinTravelTimeHours: v})
	}
	slices.SortFunc(out, func(a, b TravelTimeFloor) int {
		return compareFloorKeys(a.FloorKey, b.FloorKey)
	})
	return out
}

func compareFloorKeys(a, b FloorKey) int {
	if a.Year != b.Year {
		if a.Year < b.Year {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Product, b.Product); c != 0 {
		return c
	}
	if c := strings.Compare(a.Origin, b.Origin); c != 0 {
		return c
	}
	if c := strings.Compare(a.Destination, b.Destination); c != 0 {
		return c
	}
	if c := strings.Compare(a.PathID, b.PathID); c != 0 {
		return c
	}
	if c := strings.Compare(a.NodeID, b.NodeID); c != 0 {
		return c
	}
	if c := strings.Compare(a.Technology, b.Technology); c != 0 {
		return c
	}
	if c := strings.Compare(a.Fuel, b.Fuel); c != 0 {
		return c
	}
	if a.Generation != b.Generation {
		if a.Generation < b.Generation {
			return -1
		}
		return 1
	}
	return 0
}
