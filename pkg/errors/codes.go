package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeTimeout         ErrorCode = "COMMON_004"
	ErrCodeValidation      ErrorCode = "COMMON_005"
	ErrCodeSerialization   ErrorCode = "COMMON_006"
	ErrCodeExternalService ErrorCode = "COMMON_007"
	ErrCodeInvalidConfig   ErrorCode = "COMMON_008"
)

// Engine error codes
const (
	// ErrCodeSuperseded marks the settlement of a request that is no longer
	// the current one for its analysis mode.  Never user-visible.
	ErrCodeSuperseded ErrorCode = "ENG_001"

	// ErrCodeWithheld marks a request that was not issued because the
	// parameter set is incomplete (e.g. circular ring-count and radius lists
	// of different lengths).  Distinct from a validation failure.
	ErrCodeWithheld ErrorCode = "ENG_002"

	// ErrCodeBackend marks a transport or server-signalled analysis failure.
	ErrCodeBackend ErrorCode = "ENG_003"

	// ErrCodeNoResult marks an operation that requires a current analysis
	// result when none exists (e.g. keeping a trace before the first run).
	ErrCodeNoResult ErrorCode = "ENG_004"
)

// Analysis (demo backend) error codes
const (
	ErrCodeBadTopology ErrorCode = "ANL_001"
	ErrCodeBadWindow   ErrorCode = "ANL_002"
	ErrCodeBadPlotType ErrorCode = "ANL_003"
)

const CodeOK = ErrorCode("OK")
const CodeUnknown = ErrorCode("UNKNOWN")

// errorCodeHTTPStatus maps error codes to the HTTP status the demo backend
// responds with.  Codes absent from the map fall back to 500.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusUnprocessableEntity,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeSerialization:   http.StatusBadRequest,
	ErrCodeExternalService: http.StatusBadGateway,
	ErrCodeBadTopology:     http.StatusBadRequest,
	ErrCodeBadWindow:       http.StatusBadRequest,
	ErrCodeBadPlotType:     http.StatusBadRequest,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
