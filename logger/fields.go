package logger

// Standard field names for consistent structured logging.
const (
	// Identity
	FieldChallengeID = "challenge_id"
	FieldCID         = "cid"
	FieldRecord      = "record"

	// Components
	FieldComponent = "component"
	FieldSource    = "source"

	// Operations
	FieldAttempt = "attempt"
	FieldMethod  = "method"
	FieldPath    = "path"
	FieldSuccess = "success"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount   = "count"
	FieldAtoms   = "atoms"
	FieldBonds   = "bonds"
	FieldChiral  = "chiral"
	FieldRecords = "records"

	// Files and network
	FieldFile    = "file"
	FieldAddress = "address"
	FieldStatus  = "status"
)
