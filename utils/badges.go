package utils

// Badge returns the highest badge earned for a completion count.
func Badge(completedCount int) (string, string) {
	switch {
	case completedCount >= 5:
		return "🌳", "Eco Hero"
	case completedCount >= 3:
		return "🌿", "Green Influencer"
	case completedCount >= 1:
		return "🌱", "Eco Starter"
	default:
		return "", ""
	}
}
