package domain

import (
	"encoding/json"
	"time"
)

// PlanRecord is a stored comparison. Result is kept as raw JSON so that the
// history survives changes to the result shape.
type PlanRecord struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	InputHash string          `json:"inputHash"`
	Input     PayoffInput     `json:"input"`
	Result    json.RawMessage `json:"result"`
}

// ComparisonReport is what the service hands back for a comparison request:
// the result plus the history record it was stored under.
type ComparisonReport struct {
	PlanID string `json:"planId,omitempty"`
	Cached bool   `json:"cached"`
	ComparisonResult
	Explanation string `json:"explanation,omitempty"`
}
