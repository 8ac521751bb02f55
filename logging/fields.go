package logging

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"

	FieldCompanyID         = "company_id"
	FieldCompanyCode       = "company_code"
	FieldPrincipal         = "principal"
	FieldRate              = "annual_rate_percent"
	FieldTermYears         = "term_years"
	FieldExtraAmortization = "extra_amortization"
	FieldMonths            = "months"
	FieldCacheHit          = "cache_hit"
)

const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentSimulation = "simulation"
	ComponentCompany    = "company"
	ComponentStorage    = "storage"
	ComponentCache      = "cache"
	ComponentEvents     = "events"
	ComponentRateLimit  = "rate_limit"
)

const (
	OpSimulate = "simulate"
	OpCreate   = "create"
	OpRead     = "read"
	OpList     = "list"
	OpSeed     = "seed"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

const (
	ErrorTypeValidation  = "validation_error"
	ErrorTypeComputation = "computation_error"
	ErrorTypeNotFound    = "not_found_error"
	ErrorTypeConflict    = "conflict_error"
	ErrorTypeInternal    = "internal_error"
)

// Fields is a builder for structured log attributes.
type Fields map[string]any

func NewFields() Fields {
	return make(Fields)
}

func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f Fields) WithErrorType(kind string) Fields {
	f[FieldErrorType] = kind
	return f
}

// WithLoan adds the four engine inputs.
func (f Fields) WithLoan(principal, rate float64, years int, extra float64) Fields {
	f[FieldPrincipal] = principal
	f[FieldRate] = rate
	f[FieldTermYears] = years
	f[FieldExtraAmortization] = extra
	return f
}

func (f Fields) With(key string, value any) Fields {
	f[key] = value
	return f
}

// ToSlice flattens the fields into slog key/value arguments.
func (f Fields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
