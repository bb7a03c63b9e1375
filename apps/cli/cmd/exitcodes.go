package cmd

// Exit codes for the restflow CLI
const (
	// ExitSuccess indicates the request succeeded
	ExitSuccess = 0

	// ExitRequestFailed indicates a non-success HTTP response or failed
	// schema validation
	ExitRequestFailed = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
