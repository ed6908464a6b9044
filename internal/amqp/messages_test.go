package amqp

import (
	"testing"
	"time"
)

func TestRunReportMessageRoundTrip(t *testing.T) {
	msg := NewRunReportMessage("run-123", 2, 10, 8, 2, 5)

	if msg.RunID != "run-123" {
		t.Errorf("RunID = %q", msg.RunID)
	}
	if msg.CompletedAt.IsZero() {
		t.Error("CompletedAt should be stamped")
	}
	if time.Since(msg.CompletedAt) > time.Minute {
		t.Error("CompletedAt should be recent")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := RunReportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.RunID != msg.RunID || back.FilesRead != 2 || back.RowsRead != 10 ||
		back.RowsAccepted != 8 || back.RowsRejected != 2 || back.Donors != 5 {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestRunReportMessageFromJSONInvalid(t *testing.T) {
	if _, err := RunReportMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
