package amqp

import (
	"encoding/json"
	"time"
)

// RunReportMessage announces one completed merge run so downstream
// consumers (dashboards, reconciliation jobs) can react without polling the
// ledger table.
type RunReportMessage struct {
	RunID        string    `json:"run_id"`
	CompletedAt  time.Time `json:"completed_at"`
	FilesRead    int       `json:"files_read"`
	RowsRead     int       `json:"rows_read"`
	RowsAccepted int       `json:"rows_accepted"`
	RowsRejected int       `json:"rows_rejected"`
	Donors       int       `json:"donors"`
}

// NewRunReportMessage creates a report message stamped with the current time.
func NewRunReportMessage(runID string, filesRead, rowsRead, rowsAccepted, rowsRejected, donors int) *RunReportMessage {
	return &RunReportMessage{
		RunID:        runID,
		CompletedAt:  time.Now().UTC(),
		FilesRead:    filesRead,
		RowsRead:     rowsRead,
		RowsAccepted: rowsAccepted,
		RowsRejected: rowsRejected,
		Donors:       donors,
	}
}

// ToJSON converts the message to JSON bytes
func (m *RunReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RunReportMessageFromJSON creates a message from JSON bytes
func RunReportMessageFromJSON(data []byte) (*RunReportMessage, error) {
	var msg RunReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
