package dice

// The two damage tiers. A charged resource gauge rolls HighTier, anything at
// or below half charge rolls LowTier.
var (
	HighTier = MustParse("1d11+9") // uniform in [10, 20]
	LowTier  = MustParse("1d10")   // uniform in [1, 10]
)

// TierFor selects the damage tier for a resource level against its maximum.
//
// Postcondition: Returns HighTier iff power > limit/2 (integer division),
// so power == limit/2 takes the lower tier.
func TierFor(power, limit int) Expression {
	if power > limit/2 {
		return HighTier
	}
	return LowTier
}
