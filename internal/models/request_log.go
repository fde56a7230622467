package models

// RequestType tells text analysis and file analysis requests apart.
type RequestType string

const (
	RequestTypeText RequestType = "text"
	RequestTypeFile RequestType = "file"
)

// RequestLogEntry is one record in the request history file. Optional fields
// are pointers so that a supplied empty string or 0.0 is still written, while
// an unsupplied field is left out of the JSON entirely.
type RequestLogEntry struct {
	LogID       string      `json:"log_id"`
	Timestamp   string      `json:"timestamp"`
	RequestType RequestType `json:"request_type"`
	Success     bool        `json:"success"`
	Review      *string     `json:"review,omitempty"`
	Prediction  *string     `json:"prediction,omitempty"`
	Probability *float64    `json:"probability,omitempty"`
	FileType    *string     `json:"file_type,omitempty"`
	Filename    *string     `json:"filename,omitempty"`
	Error       *string     `json:"error,omitempty"`
}
