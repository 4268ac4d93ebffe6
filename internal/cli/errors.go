package cli

// Error codes reported by the CLI.
const (
	ErrCodeUsage             = "E001" // Wrong arguments or flags
	ErrCodeInvalidFlag       = "E002" // Flag value out of range
	ErrCodeNotFound          = "E005" // Input file missing or unreadable
	ErrCodeWriteFailed       = "E007" // Output file could not be written
	ErrCodeMalformedDocument = "E010" // Input is not a trace document
	ErrCodeMalformedMetadata = "E020" // Malformed metadata under --strict
)

// usageLine is printed when the positional arguments are wrong.
const usageLine = "Usage: contextize <trace_file>"
