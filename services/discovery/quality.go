package discovery

// Conversation quality weights. The estimate feeds back into the next
// turn's sourcing decision; it is not a user-facing metric.
const (
	qualityBaseline        = 50
	qualityTurnBonus       = 20 // turn count > 5
	qualityLongTurnBonus   = 10 // turn count > 10, on top of the above
	qualityPerPrefField    = 5
	qualityRecsBonus       = 15 // any recommendations at all
	qualityStrongRecsBonus = 10 // average match score > 80
	qualityScrapedBonus    = 15 // new scraped retreats found this cycle
)

// LowQualityThreshold is the score below which the Candidate Sourcer widens
// its source set on the next turn. It sits above the bonus-free baseline so
// a conversation that has earned no bonuses counts as low.
const LowQualityThreshold = 55

// EstimateConversationQuality scores the health of the recommendation
// dialogue on a 0-100 scale. Pure function of its inputs; monotonically
// non-decreasing in turn count, populated preference fields and average
// match score.
func EstimateConversationQuality(turnCount, prefFieldCount, recommendationCount int, avgMatchScore float64, newScrapedFound bool) int {
	score := qualityBaseline

	if turnCount > 5 {
		score += qualityTurnBonus
	}
	if turnCount > 10 {
		score += qualityLongTurnBonus
	}

	score += qualityPerPrefField * prefFieldCount

	if recommendationCount > 0 {
		score += qualityRecsBonus
		if avgMatchScore > 80 {
			score += qualityStrongRecsBonus
		}
	}

	if newScrapedFound {
		score += qualityScrapedBonus
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
