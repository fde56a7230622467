
package models

import "time"

// DiagnosticLog is an application log record kept in the SQLite tbl_log table
// until the retention pruner removes it.
type DiagnosticLog struct {
	ID        int64     `json:"-"` // SQLite Row ID
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Fields    string    `json:"fields,omitempty"` // JSON representation of extra zap fields
}
