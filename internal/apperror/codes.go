package apperror

// Code represents a unique error code for the application
type Code string

// Validation and calculation error codes.
//
// The first six form the calculation core's error taxonomy: every failure
// the core can signal maps to exactly one of them, and downstream code
// matches on the code via errors.Is, never on message text.
const (
	CodeMissingValue     Code = "MISSING_VALUE"
	CodeInvalidValue     Code = "INVALID_VALUE"
	CodeCrossedBook      Code = "CROSSED_BOOK"
	CodeDivisionByZero   Code = "DIVISION_BY_ZERO"
	CodeBelowMinimumSize Code = "BELOW_MINIMUM_SIZE"
	CodeAboveMaximumSize Code = "ABOVE_MAXIMUM_SIZE"

	CodeInvalidPair   Code = "INVALID_PAIR"
	CodeUnknownVenue  Code = "UNKNOWN_VENUE"
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Configuration error codes
const (
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeMissingFeeSchedule Code = "MISSING_FEE_SCHEDULE"
	CodeMissingAccuracy    Code = "MISSING_ACCURACY"
)

// Connector error codes
const (
	CodeVenueAPIError       Code = "VENUE_API_ERROR"
	CodeVenueUnavailable    Code = "VENUE_UNAVAILABLE"
	CodeServiceTimeout      Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded   Code = "RATE_LIMIT_EXCEEDED"
	CodeSymbolNotMapped     Code = "SYMBOL_NOT_MAPPED"
	CodeTickerFetchFailed   Code = "TICKER_FETCH_FAILED"
	CodeTickerParseFailed   Code = "TICKER_PARSE_FAILED"
	CodeWebSocketConnection Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed     Code = "WEBSOCKET_CLOSED"
	CodeCircuitOpen         Code = "CIRCUIT_OPEN"
)
