package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

// ErrUnsupported is returned for unknown kinds or formats, and for a format
// that not every requested kind can be rendered in.
var ErrUnsupported = errors.New("unsupported export")

type Kind string

const (
	KindRanking  Kind = "ranking"
	KindCriteria Kind = "criteria"
	KindSummary  Kind = "summary"
	KindAnalysis Kind = "analysis"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var allFormats = []Format{FormatCSV, FormatJSON, FormatYAML}

var kindFormats = map[Kind][]Format{
	KindRanking:  {FormatCSV, FormatJSON},
	KindCriteria: {FormatCSV, FormatJSON, FormatYAML},
	KindSummary:  {FormatJSON, FormatYAML},
	KindAnalysis: {FormatJSON},
}

// Kinds lists every report kind in rendering order.
func Kinds() []Kind {
	return []Kind{KindRanking, KindCriteria, KindSummary, KindAnalysis}
}

// Formats returns the formats a single kind can be rendered in.
func Formats(k Kind) []Format {
	return append([]Format(nil), kindFormats[k]...)
}

// CommonFormats returns the formats shared by every kind.
func CommonFormats(kinds []Kind) []Format {
	out := []Format{}
	for _, f := range allFormats {
		shared := len(kinds) > 0
		for _, k := range kinds {
			if !supports(k, f) {
				shared = false
				break
			}
		}
		if shared {
			out = append(out, f)
		}
	}
	return out
}

func supports(k Kind, f Format) bool {
	for _, candidate := range kindFormats[k] {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseKinds accepts names individually or comma separated, drops duplicates
// and returns them in rendering order.
func ParseKinds(names []string) ([]Kind, error) {
	seen := map[Kind]bool{}
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(strings.ToLower(name))
			if name == "" {
				continue
			}
			k := Kind(name)
			if _, ok := kindFormats[k]; !ok {
				return nil, fmt.Errorf("%w: unknown report kind %q", ErrUnsupported, name)
			}
			seen[k] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: at least one report kind is required", ErrUnsupported)
	}
	kinds := make([]Kind, 0, len(seen))
	for _, k := range Kinds() {
		if seen[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range allFormats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrUnsupported, s)
}

func ContentType(f Format) string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// FileName builds the attachment name, e.g. endorse-ranking-criteria-20261019T101500Z.csv.
func FileName(kinds []Kind, f Format, at time.Time) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return fmt.Sprintf("endorse-%s-%s.%s", strings.Join(parts, "-"), at.UTC().Format("20060102T150405Z"), f)
}

// Report is the data every report kind is rendered from.
type Report struct {
	Ranking     *scoring.Ranking
	Criteria    []*store.Criterion
	Validation  scoring.Validation
	Influencers int
	GeneratedAt time.Time
}

// Render writes the requested kinds in one document of the given format.
func Render(w io.Writer, rep Report, kinds []Kind, f Format) error {
	if len(kinds) == 0 {
		return fmt.Errorf("%w: at least one report kind is required", ErrUnsupported)
	}
	for _, k := range kinds {
		if !supports(k, f) {
			return fmt.Errorf("%w: %s cannot be exported as %s (available for this selection: %s)",
				ErrUnsupported, k, f, joinFormats(CommonFormats(kinds)))
		}
	}
	if rep.Ranking == nil {
		rep.Ranking = &scoring.Ranking{Candidates: []scoring.ScoredCandidate{}}
	}

	switch f {
	case FormatCSV:
		return renderCSV(w, rep, kinds)
	case FormatJSON:
		return renderJSON(w, buildDocument(rep, kinds))
	case FormatYAML:
		return renderYAML(w, buildDocument(rep, kinds))
	}
	return fmt.Errorf("%w: unknown format %q", ErrUnsupported, f)
}

func joinFormats(fs []Format) string {
	if len(fs) == 0 {
		return "none"
	}
	s := make([]string, len(fs))
	for i, f := range fs {
		s[i] = string(f)
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}
