package services

import (
	"freight-break-service/internal/domain"
)

// SkippedCombo names a flow whose ledger floors could not be derived, so a
// run summary can report the gap without failing the path.
type SkippedCombo struct {
	PathID string
	Key    domain.FleetKey
	Reason string
}

// VehiclesForFlow converts an annual flow volume into the number of vehicles
// needed to carry it over the path:
//
//	num_vehicles = path_km / (capacity_tonnes * annual_range_km) * 1000 * volume
//
// The factor 1000 converts the flow volume from kilotonnes to tonnes.
func VehiclesForFlow(pathKm float64, params domain.FleetParams, volume float64) float64 {
	return pathKm / (params.CapacityTonnes * params.AnnualRangeKm) * 1000 * volume
}

// BuildTravelTimeFloors derives the travel-time lower bounds a path's breaks
// impose on the optimization layer. For every flow routed over the path and
// every located break, the floor at the break's node is
// time_with_breaks * num_vehicles; when several breaks share a node id the
// strongest bound wins.
//
// Flows whose (year, technology, generation) has no usable fleet parameters
// are skipped and reported, never failing the remaining combinations.
func BuildTravelTimeFloors(
	p domain.PathRecord,
	breaks []domain.MandatoryBreak,
	flows []domain.FlowRecord,
	fleet map[domain.FleetKey]domain.FleetParams,
) ([]domain.TravelTimeFloor, []SkippedCombo) {
	if len(breaks) == 0 {
		return nil, nil
	}

	ledger := domain.NewTravelTimeLedger()
	var skipped []SkippedCombo
	for _, flow := range flows {
		if flow.PathID != p.PathID {
			continue
		}
		key := flow.FleetKey()
		params, ok := fleet[key]
		if !ok {
			skipped = append(skipped, SkippedCombo{PathID: p.PathID, Key: key, Reason: "no fleet parameters"})
			continue
		}
		if params.CapacityTonnes <= 0 || params.AnnualRangeKm <= 0 {
			skipped = append(skipped, SkippedCombo{PathID: p.PathID, Key: key, Reason: "non-positive capacity or annual range"})
			continue
		}

		vehicles := VehiclesForFlow(p.TotalKm(), params, flow.Volume)
		for _, b := range breaks {
			ledger.Raise(domain.FloorKey{
				Year:        flow.Year,
				Product:     flow.Product,
				Origin:      flow.Origin,
				Destination: flow.Destination,
				PathID:      p.PathID,
				NodeID:      b.NodeID,
				Technology:  flow.Technology,
				Fuel:        flow.Fuel,
				Generation:  flow.Generation,
			}, b.TimeWithBreaksHours*vehicles)
		}
	}
	return ledger.Records(), skipped
}
