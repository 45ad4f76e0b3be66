package model

import "time"

// Band is one of the four abandonment probability ranges.
type Band string

const (
	BandCritical Band = "critical" // (75,100]
	BandHigh     Band = "high"     // (50,75]
	BandModerate Band = "moderate" // (30,50]
	BandLow      Band = "low"      // [0,30]
)

// Recommendation is the catalog entry chosen for a score.
type Recommendation struct {
	Band        Band     `json:"band"`
	EntryID     string   `json:"entry_id"`
	Actions     []string `json:"actions"`
	Explanation string   `json:"explanation"`
}

// Assessment is the full rule-engine answer for one request.
type Assessment struct {
	ID             string         `json:"id"`
	Probability    int            `json:"abandonment_probability"`
	Recommendation Recommendation `json:"recommendation"`
	Input          BehaviorInput  `json:"input"`
	CreatedAt      time.Time      `json:"created_at"`
}
