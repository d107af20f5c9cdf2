package model

// GeneLocationMap maps gene id to its coordinate on the linear genome axis.
type GeneLocationMap map[string]float64

// Contains lets a location map act as the gene filter of a BLAST load.
func (m GeneLocationMap) Contains(id string) bool {
	_, ok := m[id]
	return ok
}

// Tick is one labelled position on a dot-plot axis.
type Tick struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Frame carries the axis values a chart needs for one genome.
type Frame struct {
	Boundaries []float64 `json:"boundaries"`
	Ticks      []Tick    `json:"ticks"`
	Span       float64   `json:"span"`
}
