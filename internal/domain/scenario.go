package domain

// FleetKey addresses the fleet sizing parameters for one scenario year,
// vehicle technology and vehicle generation.
type FleetKey struct {
	Year       int
	Technology string
	Generation int
}

// FleetParams sizes one vehicle cohort: how many tonnes a vehicle carries and
// how far it drives per year.
type FleetParams struct {
	CapacityTonnes float64
	AnnualRangeKm  float64
}

// FlowRecord is the externally supplied transported volume on one path for
// one (technology, fuel/infrastructure) pairing. Volume is in kilotonnes per
// year; origin and destination name the OD pair the flow serves.
type FlowRecord struct {
	Year        int
	Product     string
	Origin      string
	Destination string
	PathID      string
	Technology  string
	Fuel        string
	Generation  int
	Volume      float64
}

// FleetKey returns the sizing-parameter key the flow resolves against.
func (f FlowRecord) FleetKey() FleetKey {
	return FleetKey{Year: f.Year, Technology: f.Technology, Generation: f.Generation}
}
