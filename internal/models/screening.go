package models

import "time"

// PsychTestResult is one completed screening attempt. Band, Interpretation
// and Advice are derived from Score by the catalog band table.
type PsychTestResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Score          int       `json:"score"`
	Band           string    `json:"band"`
	Interpretation string    `json:"interpretation"`
	Advice         string    `json:"advice,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
