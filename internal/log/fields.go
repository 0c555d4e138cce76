package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"
	FieldMonth      = "month"
	FieldPayMethod  = "payment_method"
	FieldShop       = "shop"
	FieldDate       = "date"
	FieldAmount     = "amount"
	FieldRevision   = "revision"
	FieldRecords    = "records"
)

// Components
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations
const (
	OpAppend  = "append"
	OpReplace = "replace"
	OpView    = "view"
	OpSummary = "summary"
)

// Error type categories
const (
	ErrorTypeValidation  = "validation_error"
	ErrorTypeConflict    = "conflict_error"
	ErrorTypePersistence = "persistence_error"
	ErrorTypeCorrupt     = "corrupt_state_error"
	ErrorTypeInternal    = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRecord adds the fields of one ledger record.
func (f LogFields) WithRecord(date, shop, method string, amount int64) LogFields {
	f[FieldDate] = date
	f[FieldShop] = shop
	f[FieldPayMethod] = method
	f[FieldAmount] = amount
	return f
}

// WithSelection adds the period and method a view was filtered by.
func (f LogFields) WithSelection(month, method string) LogFields {
	f[FieldMonth] = month
	f[FieldPayMethod] = method
	return f
}

func (f LogFields) WithRevision(revision uint64) LogFields {
	f[FieldRevision] = revision
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
