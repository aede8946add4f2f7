package scenario

// BuiltIn returns the predefined daily journeys keyed by ID.
func BuiltIn() map[string]Journey {
	return map[string]Journey{
		"weekend": {
			ID:          "weekend",
			Name:        "Weekend Entertainment",
			Description: "Two hours of streamed video followed by two hours of music.",
			Segments: []Segment{
				{App: "video", Minutes: 120},
				{App: "music", Minutes: 120},
			},
		},
		"commute": {
			ID:          "commute",
			Name:        "Commute & Work",
			Description: "Navigate to the office, catch up on social feeds, then browse for work.",
			Segments: []Segment{
				{App: "navigation", Minutes: 60},
				{App: "social", Minutes: 60},
				{App: "browser", Minutes: 120},
			},
		},
		"mixed": {
			ID:          "mixed",
			Name:        "Mixed Daily Usage",
			Description: "A short drive, social media, a video break, music and some reading.",
			Segments: []Segment{
				{App: "navigation", Minutes: 30},
				{App: "social", Minutes: 60},
				{App: "video", Minutes: 60},
				{App: "music", Minutes: 90},
				{App: "browser", Minutes: 60},
			},
		},
		"business": {
			ID:          "business",
			Name:        "Business Travel",
			Description: "Three hours of turn-by-turn navigation with music on arrival.",
			Segments: []Segment{
				{App: "navigation", Minutes: 180},
				{App: "music", Minutes: 60},
			},
		},
	}
}

// BuiltInOrder lists built-in journey IDs in report order.
var BuiltInOrder = []string{"weekend", "commute", "mixed", "business"}
