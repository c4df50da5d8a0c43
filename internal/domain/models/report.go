package models

import "time"

// IngestionSummary aggregates how many records of each entity were received in a window.
type IngestionSummary struct {
	From   time.Time        `json:"from"`
	To     time.Time        `json:"to"`
	Counts map[Entity]int64 `json:"counts"`
}

// Total sums the per-entity counts.
func (s IngestionSummary) Total() int64 {
	var total int64
	for _, n := range s.Counts {
		total += n
	}
	return total
}
