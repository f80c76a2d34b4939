package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// Validation and calculation
	CodeMissingValue:     "Required value is missing",
	CodeInvalidValue:     "Value violates its numeric constraint",
	CodeCrossedBook:      "Crossed or locked book: bid must be below ask",
	CodeDivisionByZero:   "Division by zero in return calculation",
	CodeBelowMinimumSize: "Sized amount is below the venue minimum order size",
	CodeAboveMaximumSize: "Sized amount exceeds the venue maximum order size",
	CodeInvalidPair:      "Pair must be canonical like BASE/QUOTE",
	CodeUnknownVenue:     "Venue is not registered",
	CodeInternalError:    "Internal error",
	CodeUnknownError:     "An unknown error occurred",

	// Configuration
	CodeConfigurationError: "Configuration error",
	CodeMissingFeeSchedule: "No fee schedule configured for venue",
	CodeMissingAccuracy:    "No trading accuracy configured for venue and pair",

	// Connectors
	CodeVenueAPIError:       "Venue API error",
	CodeVenueUnavailable:    "Venue temporarily unavailable",
	CodeServiceTimeout:      "Venue request timeout",
	CodeRateLimitExceeded:   "Rate limit exceeded",
	CodeSymbolNotMapped:     "No venue symbol mapping for pair",
	CodeTickerFetchFailed:   "Failed to fetch ticker",
	CodeTickerParseFailed:   "Failed to parse ticker payload",
	CodeWebSocketConnection: "WebSocket connection error",
	CodeWebSocketClosed:     "WebSocket connection closed",
	CodeCircuitOpen:         "Circuit breaker is open",
}
