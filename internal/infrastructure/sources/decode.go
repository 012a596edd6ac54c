package sources

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/akave-ai/logingest/internal/model"
)

var errNotArray = errors.New("payload is not a JSON array")

// Decode parses a JSON array of records. Backends wrap the error in a DecodeError.
func Decode(data []byte) ([]model.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}
	var recs []model.RawRecord
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
