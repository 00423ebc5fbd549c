package logging

// LogEntry represents a structured log record with fields relevant to
// tracking an evolutionary session.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Session-specific fields
	SessionID  string // The active evolution session, if any
	Generation int    // Generation the entry was emitted in; -1 when unknown

	// General structured data
	Fields map[string]interface{}
}
