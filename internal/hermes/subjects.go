package hermes

const (
	SubjectCriteriaUpdated = "endorse.criteria.updated"
	SubjectRankingComputed = "endorse.ranking.computed"
	SubjectRankingFailed   = "endorse.ranking.failed"
	SubjectRankingRequest  = "endorse.ranking.request"
	SubjectExportGenerated = "endorse.export.generated"

	StreamName   = "ENDORSE_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectInfluencerCreated(id string) string { return "endorse.influencer." + id + ".created" }
func SubjectInfluencerUpdated(id string) string { return "endorse.influencer." + id + ".updated" }
func SubjectInfluencerDeleted(id string) string { return "endorse.influencer." + id + ".deleted" }
