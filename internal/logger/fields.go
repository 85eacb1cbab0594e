package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldImageID is the catalog image ID
	FieldImageID = "image_id"

	// FieldHash is the image content hash
	FieldHash = "hash"

	// FieldLabel is the label name on classification paths
	FieldLabel = "label"

	// FieldUser is the submitting user name
	FieldUser = "user"
)

// Metric fields attached to individual entries for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
