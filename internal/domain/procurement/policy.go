package procurement

// MatchPolicy decides how a delivered order is matched against existing
// raw-material lots. Names alone are not unique SKUs, so the two policies
// differ in how many fields must line up before a delivery counts as a
// restock of an existing lot.
type MatchPolicy string

const (
	// MatchPolicyFlexible matches on (name, supplier, unit) only. Brand,
	// category, quality and cost may drift between restocks of a known lot.
	MatchPolicyFlexible MatchPolicy = "flexible"
	// MatchPolicyStrict matches on the full six-field tuple. Any single
	// differing field creates a new lot, even under an identical name, so
	// distinct specifications are never silently merged.
	MatchPolicyStrict MatchPolicy = "strict"
)

// IsValid checks if the policy is a valid MatchPolicy
func (p MatchPolicy) IsValid() bool {
	return p == MatchPolicyFlexible || p == MatchPolicyStrict
}

// String returns the string representation of MatchPolicy
func (p MatchPolicy) String() string {
	return string(p)
}

// PolicyFor maps the purchaser's restock declaration to a match policy
func PolicyFor(isRestock bool) MatchPolicy {
	if isRestock {
		return MatchPolicyFlexible
	}
	return MatchPolicyStrict
}
