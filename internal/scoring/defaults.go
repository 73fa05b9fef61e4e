package scoring

// Criterion ids of the default influencer evaluation set.
const (
	CriterionFollowers  = "C1"
	CriterionEngagement = "C2"
	CriterionBrandFit   = "C3"
	CriterionCost       = "C4"
	CriterionExperience = "C5"
)

// DefaultCriteria returns the default influencer criteria. Weights sum to 1.0.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{ID: CriterionFollowers, Name: "Followers", Direction: Benefit, Weight: 0.20},
		{ID: CriterionEngagement, Name: "Engagement rate", Direction: Benefit, Weight: 0.30},
		{ID: CriterionBrandFit, Name: "Brand fit", Direction: Benefit, Weight: 0.25},
		{ID: CriterionCost, Name: "Endorsement cost", Direction: Cost, Weight: 0.15},
		{ID: CriterionExperience, Name: "Endorsement experience", Direction: Benefit, Weight: 0.10},
	}
}

// DefaultCriterionSet returns DefaultCriteria as a CriterionSet.
func DefaultCriterionSet() CriterionSet {
	return MustCriterionSet(DefaultCriteria()...)
}
