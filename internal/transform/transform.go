// Package transform maps source records onto the canonical row schema.
package transform

import (
	"github.com/google/uuid"

	"github.com/akave-ai/logingest/internal/model"
)

// Record returns the normalized row for rec, tagged with ingestionID and a
// fresh random id. Absent fields become zero values.
func Record(ingestionID string, rec model.RawRecord) model.NormalizedRow {
	return model.NormalizedRow{
		ID:           uuid.NewString(),
		IngestionID:  ingestionID,
		Timestamp:    valueOf(rec.Timestamp),
		UserID:       valueOf(rec.UserID),
		EventType:    valueOf(rec.EventType),
		PageURL:      valueOf(rec.PageURL),
		IPAddress:    valueOf(rec.IPAddress),
		DeviceType:   valueOf(rec.DeviceType),
		Browser:      valueOf(rec.Browser),
		OS:           valueOf(rec.OS),
		ResponseTime: valueOf(rec.ResponseTime),
	}
}

// Records transforms every record of one file.
func Records(ingestionID string, recs []model.RawRecord) []model.NormalizedRow {
	rows := make([]model.NormalizedRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, Record(ingestionID, rec))
	}
	return rows
}

func valueOf[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
