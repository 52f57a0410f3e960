package constants

// Config messages
const (
	// MsgConfigLoadError is the error message when configuration loading fails.
	MsgConfigLoadError = "❌ Failed to load configuration: %v\n"

	// MsgConfigValidationError is the message when configuration validation fails.
	MsgConfigValidationError = "❌ Configuration validation failed:\n"

	// MsgConfigValid is the message when configuration is successfully loaded and validated.
	MsgConfigValid = "✅ Configuration loaded"

	// MsgConfigValidatePrefix is the prefix for configuration validation errors.
	MsgConfigValidatePrefix = "  - %v\n"

	// MsgConfigWritten reports where `config init` wrote the file.
	MsgConfigWritten = "✅ Configuration written to %s\n"
)

// Resolution messages
const (
	MsgNoRuns = "No upcoming runs within the search horizon."

	// MsgExhaustedWarning follows a short list when the horizon ran out
	// before n runs were found.
	MsgExhaustedWarning = "⚠️  Search horizon reached after %d run(s); the definition may be overly restrictive.\n"

	// MsgHolidaysIgnored is printed when engine.holidays leaves no business day.
	MsgHolidaysIgnored = "⚠️  Holidays leave no business day within a year; ignoring them.\n"
)

// Store messages
const (
	MsgImported = "✅ Imported %d definition(s), %d replaced\n"

	MsgRemoved = "✅ Removed %s\n"

	MsgEmptyStore = "No stored definitions in %s\n"
)

// Service messages
const (
	MsgServiceStopped = "Service stopped"
)
