package loyalty

// Customer tiers, derived solely from lifetime points earned.
const (
	TierBronze = "Bronze"
	TierSilver = "Silver"
	TierGold   = "Gold"
)

// Tier thresholds on lifetime earned points.
const (
	silverThreshold = 1000
	goldThreshold   = 2000
)

// TierFor maps lifetime earned points to a tier.
func TierFor(lifetimeEarned int) string {
	switch {
	case lifetimeEarned >= goldThreshold:
		return TierGold
	case lifetimeEarned >= silverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// PointsToNextTier is the distance to the next threshold, 0 at Gold.
func PointsToNextTier(lifetimeEarned int) int {
	switch {
	case lifetimeEarned >= goldThreshold:
		return 0
	case lifetimeEarned >= silverThreshold:
		return goldThreshold - lifetimeEarned
	default:
		return silverThreshold - lifetimeEarned
	}
}
