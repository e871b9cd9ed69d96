package domain

// BreakKind distinguishes the two mandated pause types.
type BreakKind string

const (
	ShortBreak BreakKind = "SHORT_BREAK"
	RestPeriod BreakKind = "REST_PERIOD"
)

// ChargingType classifies the charging infrastructure a break stop relies on.
// Short stops use fast chargers; long rests charge slowly overnight.
type ChargingType string

const (
	ChargingFast ChargingType = "fast"
	ChargingSlow ChargingType = "slow"
)

// Charging returns the infrastructure class associated with the break kind.
func (k BreakKind) Charging() ChargingType {
	if k == RestPeriod {
		return ChargingSlow
	}
	return ChargingFast
}

// BreakEvent is a planned break that has not yet been bound to a node.
// Targets are cumulative driving distance and driving time from the path
// origin; break numbers are 1-based and strictly ordered.
type BreakEvent struct {
	Number             int
	Kind               BreakKind
	DurationHours      float64
	TargetKm           float64
	TargetDrivingHours float64
}

// MandatoryBreak is a planned break bound to a concrete node on its path.
// Created once per path during preprocessing and never mutated afterwards.
type MandatoryBreak struct {
	PathID string
	Number int
	Kind   BreakKind

	// NodeIndex and NodeID place the break on the (possibly augmented) path.
	// Synthetic stops share the destination's node id, so NodeIndex is the
	// distinguishing position.
	NodeIndex int
	NodeID    string

	CumulativeKm        float64
	DrivingHours        float64
	TimeWithBreaksHours float64
	Charging            ChargingType
}
