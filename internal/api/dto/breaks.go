package dto

type BreakResponse struct {
	PathID              string  `json:"path_id"`
	Number              int     `json:"break_number"`
	Kind                string  `json:"kind"`
	NodeIndex           int     `json:"node_index"`
	NodeID              string  `json:"node_id"`
	CumulativeKm        float64 `json:"cumulative_km"`
	DrivingHours        float64 `json:"driving_hours"`
	TimeWithBreaksHours float64 `json:"time_with_breaks_hours"`
	Charging            string  `json:"charging"`
}

type ListBreaksResponse struct {
	Breaks []BreakResponse `json:"breaks"`
}
