package dto

// SubmitScreeningRequest maps question ids to the chosen option value.
type SubmitScreeningRequest struct {
	Answers map[int]int `json:"answers"`
}
