package dto

// RecordMoodRequest is the payload for logging a mood entry.
type RecordMoodRequest struct {
	MoodValue int    `json:"moodValue"`
	Note      string `json:"note"`
}
