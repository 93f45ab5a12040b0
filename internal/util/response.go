package util

// Envelope is the ad-hoc JSON object shape used by handlers for error and
// status payloads.
type Envelope map[string]any

// Error wraps a message in the {"error": ...} shape every failure response
// uses.
func Error(message string) Envelope {
	return Envelope{"error": message}
}
