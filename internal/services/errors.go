package services

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// UpstreamError is a failed or unusable completion call.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string { return e.Provider + " completion failed: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// StorageError is a failed history write or read.
type StorageError struct{ Err error }

func (e *StorageError) Error() string { return "chat history store: " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }
