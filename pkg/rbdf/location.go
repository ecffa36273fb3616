package rbdf

type Location struct {
	Type        string    `json:"type" groups:"basic"`
	Coordinates []float64 `json:"coordinates" groups:"basic"`
}
