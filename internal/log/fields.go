package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldStage     = "stage"
	FieldError     = "error"
	FieldFile      = "file"
	FieldLine      = "line"
	FieldReason    = "reason"
	FieldDonorID   = "donor_id"
	FieldDonors    = "donors"
	FieldFiles     = "files"
	FieldRowsRead  = "rows_read"
	FieldAccepted  = "rows_accepted"
	FieldRejected  = "rows_rejected"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentIntake  = "intake"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentExport  = "export"
	ComponentReport  = "report"
	ComponentBackend = "backend"
)

// Stages name the phases of one run, in order. Failures are reported with
// the stage that produced them.
const (
	StageReadInput  = "read_input"
	StageLoadPrior  = "read_prior_table"
	StageMerge      = "merge"
	StageWrite      = "write_result"
	StageReport     = "report"
	StageExport     = "export"
	StageMoveFiles  = "move_files"
	StagePublishRun = "publish_run"
)
