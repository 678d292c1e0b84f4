package server

import "strings"

const (

	// Maximum number of lines of error output included in a response.
	maxErrorLines = 16

	// Marker searched for to locate the interesting part of tool output.
	errorMarker = "error"
)

// Renders an operation error into the bounded text sent back to the client.
//
// Delegated operations can surface pages of compiler or tool output. To
// avoid flooding the client, rendering starts at the first line containing
// an error marker (case-insensitive) and keeps at most [maxErrorLines] lines
// from there.
func renderError(err error) string {
	lines := strings.Split(err.Error(), "\n")

	start := 0
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), errorMarker) {
			start = i
			break
		}
	}

	lines = lines[start:]
	if len(lines) > maxErrorLines {
		lines = append(lines[:maxErrorLines], "(output truncated)")
	}

	return strings.Join(lines, "\n")
}
