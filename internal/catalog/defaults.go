package catalog

// Band keys of the default screening table.
const (
	BandMinimal          = "minimal"
	BandMild             = "mild"
	BandModerate         = "moderate"
	BandModeratelySevere = "moderately_severe"
)

var likertOptions = []Option{
	{Value: 0, Label: "Not at all"},
	{Value: 1, Label: "Several days"},
	{Value: 2, Label: "More than half the days"},
	{Value: 3, Label: "Nearly every day"},
}

// Default returns a fresh copy of the built-in tables.
func Default() *Catalog {
	return &Catalog{
		Moods: []MoodLevel{
			{Value: 1, Label: "Sad", Emoji: "😭", Color: "bg-blue-200"},
			{Value: 2, Label: "Worried", Emoji: "😟", Color: "bg-indigo-200"},
			{Value: 3, Label: "Neutral", Emoji: "😐", Color: "bg-gray-200"},
			{Value: 4, Label: "Good", Emoji: "🙂", Color: "bg-green-200"},
			{Value: 5, Label: "Happy", Emoji: "🥰", Color: "bg-pink-200"},
		},
		Rewards: []Reward{
			{ID: "1", Name: "Break Time (5 min)", Cost: 10, Icon: "⏰", Color: "bg-yellow-100"},
			{ID: "2", Name: "Stationery Coupon", Cost: 12, Icon: "✏️", Color: "bg-purple-100"},
			{ID: "3", Name: "Food/Drink Coupon", Cost: 15, Icon: "🧃", Color: "bg-orange-100"},
		},
		Questions: []Question{
			{ID: 1, Prompt: "How often have you felt little interest or pleasure in doing things over the last week?", Options: cloneOptions(likertOptions)},
			{ID: 2, Prompt: "How often have you felt down, depressed, or hopeless?", Options: cloneOptions(likertOptions)},
			{ID: 3, Prompt: "How often have you felt nervous, anxious, or on edge?", Options: cloneOptions(likertOptions)},
			{ID: 4, Prompt: "How often have you been unable to stop or control worrying?", Options: cloneOptions(likertOptions)},
		},
		Bands: []Band{
			{Key: BandMinimal, Min: 0, Label: "minimal symptoms", Advice: "Minimal depression symptoms. You are doing well!"},
			{Key: BandMild, Min: 5, Label: "mild symptoms, suggest self-care", Advice: "Mild symptoms. Try to engage in activities you enjoy."},
			{Key: BandModerate, Min: 10, Label: "moderate symptoms, suggest counselor conversation", Advice: "Moderate symptoms. Consider talking to the school counselor."},
			{Key: BandModeratelySevere, Min: 15, Label: "moderately severe, suggest immediate appointment", Advice: "Moderately severe symptoms. Please schedule an appointment with a teacher immediately."},
		},
	}
}

func cloneOptions(in []Option) []Option {
	return append([]Option(nil), in...)
}
