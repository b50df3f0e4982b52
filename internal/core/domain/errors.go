package domain

import "go.trai.ch/zerr"

var (
	// ErrDanglingReference is recorded when a reference points to a component that does not exist.
	ErrDanglingReference = zerr.New("dangling reference")

	// ErrMalformedReference is recorded when a reference cannot be mapped to a component.
	ErrMalformedReference = zerr.New("malformed reference")

	// ErrCacheSerialization is returned when a cache key cannot be derived from its inputs.
	ErrCacheSerialization = zerr.New("failed to canonically serialize cache key")

	// ErrOrchestrationTimeout is returned when an analysis stage exceeds its budget.
	ErrOrchestrationTimeout = zerr.New("analysis stage timed out")

	// ErrOrchestrationMalformedResponse is returned when the reasoning engine output fails validation.
	ErrOrchestrationMalformedResponse = zerr.New("malformed reasoning engine response")

	// ErrFatalInput is returned when the spec model is missing or unusable.
	ErrFatalInput = zerr.New("spec model is missing or unparseable")

	// ErrInvalidTransition is returned when an analysis moves to a state its current state cannot reach.
	ErrInvalidTransition = zerr.New("invalid analysis state transition")

	// ErrSpecReadFailed is returned when the spec file cannot be read.
	ErrSpecReadFailed = zerr.New("failed to read spec file")

	// ErrSpecParseFailed is returned when the spec document cannot be parsed.
	ErrSpecParseFailed = zerr.New("failed to parse spec document")

	// ErrUnsupportedSpecVersion is returned for documents that are not OpenAPI 3.x.
	ErrUnsupportedSpecVersion = zerr.New("unsupported spec version, expected OpenAPI 3.x")

	// ErrFindingsReadFailed is returned when the findings file cannot be read.
	ErrFindingsReadFailed = zerr.New("failed to read findings file")

	// ErrFindingsParseFailed is returned when the findings file cannot be parsed.
	ErrFindingsParseFailed = zerr.New("failed to parse findings file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration value")

	// ErrInvalidPattern is returned when a privileged field pattern does not compile.
	ErrInvalidPattern = zerr.New("invalid privileged field pattern")

	// ErrEngineRequestFailed is returned when a request to the reasoning engine cannot be sent.
	ErrEngineRequestFailed = zerr.New("reasoning engine request failed")

	// ErrEngineStatus is returned when the reasoning engine answers with a non-success status.
	ErrEngineStatus = zerr.New("reasoning engine returned an error status")

	// ErrKnowledgeReadFailed is returned when the knowledge snippets cannot be loaded.
	ErrKnowledgeReadFailed = zerr.New("failed to read knowledge snippets")

	// ErrStoreCreateFailed is returned when the result store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create result store directory")

	// ErrStoreReadFailed is returned when a stored result cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read stored result")

	// ErrStoreWriteFailed is returned when a result cannot be written to the store.
	ErrStoreWriteFailed = zerr.New("failed to write stored result")

	// ErrStoreMarshalFailed is returned when a result cannot be marshaled for storage.
	ErrStoreMarshalFailed = zerr.New("failed to marshal stored result")

	// ErrStoreUnmarshalFailed is returned when a stored result cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal stored result")

	// ErrUnknownStoreBackend is returned when the configured store backend is not supported.
	ErrUnknownStoreBackend = zerr.New("unknown result store backend, expected 'none', 'file' or 'redis'")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")

	// ErrUnknownFormat is returned when an output format is not supported.
	ErrUnknownFormat = zerr.New("unknown output format, expected 'text' or 'json'")

	// ErrWatchFailed is returned when the spec file cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch spec file")
)
