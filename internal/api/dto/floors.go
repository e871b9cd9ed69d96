package dto

type FloorResponse struct {
	Year               int     `json:"year"`
	Product            string  `json:"product"`
	Origin             string  `json:"origin"`
	Destination        string  `json:"destination"`
	PathID             string  `json:"path_id"`
	NodeID             string  `json:"node_id"`
	Technology         string  `json:"technology"`
	Fuel               string  `json:"fuel"`
	Generation         int     `json:"generation"`
	MinTravelTimeHours float64 `json:"min_travel_time_hours"`
}

type ListFloorsResponse struct {
	Floors []FloorResponse `json:"floors"`
}
