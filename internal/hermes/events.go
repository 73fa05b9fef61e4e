package hermes

import "time"

type InfluencerEvent struct {
	InfluencerID string    `json:"influencer_id"`
	Name         string    `json:"name,omitempty"`
	Category     string    `json:"category,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type CriterionWeight struct {
	ID        string  `json:"id"`
	Direction string  `json:"direction"`
	Weight    float64 `json:"weight"`
}

type CriteriaUpdatedEvent struct {
	Criteria  []CriterionWeight `json:"criteria"`
	WeightSum float64           `json:"weight_sum"`
	Valid     bool              `json:"valid"`
	Timestamp time.Time         `json:"timestamp"`
}

type RankedEntry struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name,omitempty"`
	Rank        int     `json:"rank"`
	Score       float64 `json:"score"`
	Tier        string  `json:"tier"`
}

type RankingComputedEvent struct {
	RunID         string        `json:"run_id"`
	Trigger       string        `json:"trigger"`
	Candidates    int           `json:"candidates"`
	TierThreshold float64       `json:"tier_threshold"`
	Top           []RankedEntry `json:"top"`
	DurationMs    float64       `json:"duration_ms"`
	Timestamp     time.Time     `json:"timestamp"`
}

type RankingFailedEvent struct {
	RunID     string    `json:"run_id"`
	Trigger   string    `json:"trigger"`
	Kind      string    `json:"kind"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// RankingRequestEvent asks the service to recompute. Other services publish it
// after bulk changes to the session.
type RankingRequestEvent struct {
	Source string `json:"source,omitempty"`
}

type ExportGeneratedEvent struct {
	ExportID  string    `json:"export_id"`
	Kinds     []string  `json:"kinds"`
	Format    string    `json:"format"`
	SizeBytes int       `json:"size_bytes"`
	Timestamp time.Time `json:"timestamp"`
}
