package model

// RawRecord is one entry of a source log file. Every field is optional;
// absent fields decode to nil and are defaulted by the transformer.
type RawRecord struct {
	LogID        *int64   `json:"log_id,omitempty"`
	Timestamp    *string  `json:"timestamp,omitempty"`
	UserID       *int64   `json:"user_id,omitempty"`
	EventType    *string  `json:"event_type,omitempty"`
	PageURL      *string  `json:"page_url,omitempty"`
	IPAddress    *string  `json:"ip_address,omitempty"`
	DeviceType   *string  `json:"device_type,omitempty"`
	Browser      *string  `json:"browser,omitempty"`
	OS           *string  `json:"os,omitempty"`
	ResponseTime *float64 `json:"response_time,omitempty"`
}

// NormalizedRow is the canonical row persisted into datalake.logs.
type NormalizedRow struct {
	ID           string  `json:"id"`
	IngestionID  string  `json:"ingestion_id"`
	Timestamp    string  `json:"timestamp"`
	UserID       int64   `json:"user_id"`
	EventType    string  `json:"event_type"`
	PageURL      string  `json:"page_url"`
	IPAddress    string  `json:"ip_address"`
	DeviceType   string  `json:"device_type"`
	Browser      string  `json:"browser"`
	OS           string  `json:"os"`
	ResponseTime float64 `json:"response_time"`
}

// Values returns the row's columns in insert-statement order.
func (r NormalizedRow) Values() []any {
	return []any{
		r.ID,
		r.IngestionID,
		r.Timestamp,
		r.UserID,
		r.EventType,
		r.PageURL,
		r.IPAddress,
		r.DeviceType,
		r.Browser,
		r.OS,
		r.ResponseTime,
	}
}
