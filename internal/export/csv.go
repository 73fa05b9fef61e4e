package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

func renderCSV(w io.Writer, rep Report, kinds []Kind) error {
	cw := csv.NewWriter(w)
	for i, k := range kinds {
		if len(kinds) > 1 {
			if i > 0 {
				if err := cw.Write([]string{}); err != nil {
					return err
				}
			}
			if err := cw.Write([]string{"# " + string(k)}); err != nil {
				return err
			}
		}
		var err error
		switch k {
		case KindRanking:
			err = writeRankingCSV(cw, rep)
		case KindCriteria:
			err = writeCriteriaCSV(cw, rep)
		default:
			err = fmt.Errorf("%w: %s has no csv form", ErrUnsupported, k)
		}
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeRankingCSV(cw *csv.Writer, rep Report) error {
	header := []string{"rank", "id", "name", "score", "tier"}
	var criteria []string
	if rep.Ranking.Normalized != nil {
		criteria = rep.Ranking.Normalized.CriterionIDs()
	}
	for _, id := range criteria {
		header = append(header, id+"_weighted")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, c := range rep.Ranking.Candidates {
		record := []string{
			strconv.Itoa(c.Rank),
			c.ID,
			c.Name,
			formatFloat(c.Score),
			c.Tier.Label(),
		}
		for _, f := range c.Factors {
			record = append(record, formatFloat(f.Weighted))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeCriteriaCSV(cw *csv.Writer, rep Report) error {
	if err := cw.Write([]string{"id", "name", "description", "unit", "direction", "weight", "percent"}); err != nil {
		return err
	}
	for _, c := range rep.Criteria {
		record := []string{
			c.ID, c.Name, c.Description, c.Unit, c.Direction,
			formatFloat(c.Weight),
			strconv.FormatFloat(c.Weight*100, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
