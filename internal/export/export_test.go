package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	m, err := scoring.NewDecisionMatrix(
		scoring.Candidate{ID: "1", Name: "Sarah Fashion", Attributes: map[string]float64{"reach": 50000, "fee": 15}},
		scoring.Candidate{ID: "2", Name: "Maya Style", Attributes: map[string]float64{"reach": 25000, "fee": 5}},
	)
	require.NoError(t, err)
	set := scoring.MustCriterionSet(
		scoring.Criterion{ID: "reach", Direction: scoring.Benefit, Weight: 0.6},
		scoring.Criterion{ID: "fee", Direction: scoring.Cost, Weight: 0.4},
	)
	r, err := scoring.ComputeRanking(m, set, scoring.DefaultRankConfig())
	require.NoError(t, err)

	return Report{
		Ranking: r,
		Criteria: []*store.Criterion{
			{ID: "reach", Name: "Reach", Unit: "followers", Direction: "benefit", Weight: 0.6},
			{ID: "fee", Name: "Fee", Unit: "IDR", Direction: "cost", Weight: 0.4, Position: 1},
		},
		Validation:  set.Validate(),
		Influencers: 2,
		GeneratedAt: time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC),
	}
}

func TestCommonFormats(t *testing.T) {
	tests := []struct {
		kinds []Kind
		want  []Format
	}{
		{[]Kind{KindRanking}, []Format{FormatCSV, FormatJSON}},
		{[]Kind{KindCriteria}, []Format{FormatCSV, FormatJSON, FormatYAML}},
		{[]Kind{KindRanking, KindCriteria}, []Format{FormatCSV, FormatJSON}},
		{[]Kind{KindSummary, KindCriteria}, []Format{FormatJSON, FormatYAML}},
		{[]Kind{KindRanking, KindSummary, KindAnalysis}, []Format{FormatJSON}},
		{nil, []Format{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommonFormats(tt.kinds), "kinds %v", tt.kinds)
	}
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"summary,ranking", "RANKING"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindRanking, KindSummary}, kinds)

	_, err = ParseKinds([]string{"pdf"})
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = ParseKinds(nil)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRenderRankingCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), []Kind{KindRanking}, FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"rank", "id", "name", "score", "tier", "reach_weighted", "fee_weighted"}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Highly recommended", records[1][4])
	assert.Equal(t, "Recommended", records[2][4])
}

func TestRenderMultipleKindsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), []Kind{KindRanking, KindCriteria}, FormatCSV))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# ranking\n"))
	assert.Contains(t, out, "\n\n# criteria\n")
	assert.Contains(t, out, "fee,Fee,,IDR,cost,0.400000,40.0")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), []Kind{KindRanking, KindSummary, KindAnalysis}, FormatJSON))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2026-10-19T10:15:00Z", doc["generated_at"])
	assert.Contains(t, doc, "ranking")
	assert.Contains(t, doc, "analysis")
	assert.NotContains(t, doc, "criteria")

	summary := doc["summary"].(map[string]interface{})
	assert.Equal(t, 2.0, summary["ranked"])
	tiers := summary["tiers"].(map[string]interface{})
	assert.Equal(t, 1.0, tiers["highly_recommended"])
	assert.Equal(t, 1.0, tiers["recommended"])
	assert.Equal(t, 0.0, tiers["not_recommended"])

	analysis := doc["analysis"].(map[string]interface{})
	normalized := analysis["normalized"].(map[string]interface{})
	assert.Len(t, normalized["rows"], 2)
}

func TestRenderCriteriaYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(t), []Kind{KindCriteria}, FormatYAML))

	var doc struct {
		Criteria struct {
			Items []store.Criterion `yaml:"items"`
			Valid bool              `yaml:"valid"`
		} `yaml:"criteria"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Criteria.Items, 2)
	assert.Equal(t, "fee", doc.Criteria.Items[1].ID)
	assert.True(t, doc.Criteria.Valid)
}

func TestRenderRejectsUnsharedFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleReport(t), []Kind{KindRanking, KindSummary}, FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "available for this selection: json")

	err = Render(&bytes.Buffer{}, sampleReport(t), []Kind{KindAnalysis}, FormatYAML)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRenderEmptyRanking(t *testing.T) {
	rep := sampleReport(t)
	rep.Ranking = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, rep, []Kind{KindRanking}, FormatCSV))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "header only")
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, "endorse-ranking-criteria-20261019T101500Z.csv", FileName([]Kind{KindRanking, KindCriteria}, FormatCSV, at))
	assert.Equal(t, "text/csv; charset=utf-8", ContentType(FormatCSV))
	assert.Equal(t, "application/yaml", ContentType(FormatYAML))
}
