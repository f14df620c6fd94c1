package util

type Envelope map[string]any

// Error builds the error body returned by every endpoint.
func Error(detail string) Envelope {
	return Envelope{"detail": detail}
}
