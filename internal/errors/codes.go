package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL. API consumers map
// these to their own messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // missing or bad bearer token
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationMissingFile   = "VALIDATION_MISSING_FILE"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"

	// ==================== Ingestion (INGEST_) ====================
	IngestMissingColumns = "INGEST_MISSING_COLUMNS" // required columns absent, run aborted
	IngestNoHeaderRow    = "INGEST_NO_HEADER_ROW"   // no recognizable header in file
	IngestFailed         = "INGEST_FAILED"

	// ==================== Report (REPORT_) ====================
	ReportNoAmountColumn = "REPORT_NO_AMOUNT_COLUMN" // neither 'Item amount' nor 'Amount'
	ReportMissingReceipt = "REPORT_MISSING_RECEIPT_COLUMN"
	ReportNotFound       = "REPORT_NOT_FOUND" // no cached report for that date
	ReportFailed         = "REPORT_FAILED"

	// ==================== Store (STORE_) ====================
	StoreNotConfigured = "STORE_NOT_CONFIGURED"
	StoreUnavailable   = "STORE_UNAVAILABLE"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
