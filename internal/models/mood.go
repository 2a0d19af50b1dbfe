package models

import "time"

// MoodLog is one mood entry. Logs are append-only.
type MoodLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	MoodValue int       `json:"moodValue"`
	Emoji     string    `json:"emoji"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// MoodDistributionEntry counts logs recorded at one mood level.
type MoodDistributionEntry struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}
