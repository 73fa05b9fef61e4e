package session

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Endorse/internal/export"
	"github.com/MikeSquared-Agency/Endorse/internal/hermes"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

// ExportResult is a rendered report ready to be served as an attachment.
type ExportResult struct {
	Record      store.ExportRecord
	FileName    string
	ContentType string
	Body        []byte
}

// Export renders the requested report kinds from the current ranking,
// computing one first when the cache is out of date.
func (s *Service) Export(ctx context.Context, kinds []export.Kind, format export.Format) (*ExportResult, error) {
	res, err := s.Current(ctx, TriggerExport)
	if err != nil {
		return nil, err
	}
	view, err := s.Criteria(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountInfluencers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count influencers: %w", err)
	}

	now := time.Now().UTC()
	var buf bytes.Buffer
	rep := export.Report{
		Ranking:     res.Ranking,
		Criteria:    view.Criteria,
		Validation:  view.Validation,
		Influencers: count,
		GeneratedAt: now,
	}
	if err := export.Render(&buf, rep, kinds, format); err != nil {
		return nil, err
	}

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	record := store.ExportRecord{
		ID:        uuid.New(),
		Kinds:     names,
		Format:    string(format),
		SizeBytes: buf.Len(),
		CreatedAt: now,
	}
	s.exports.Append(record)
	s.metrics.Exports.WithLabelValues(string(format)).Inc()
	s.publish(hermes.SubjectExportGenerated, hermes.ExportGeneratedEvent{
		ExportID:  record.ID.String(),
		Kinds:     names,
		Format:    record.Format,
		SizeBytes: record.SizeBytes,
		Timestamp: now,
	})

	return &ExportResult{
		Record:      record,
		FileName:    export.FileName(kinds, format, now),
		ContentType: export.ContentType(format),
		Body:        buf.Bytes(),
	}, nil
}

// Exports returns the export history, newest first.
func (s *Service) Exports() []store.ExportRecord {
	return s.exports.List()
}
