package logutil

// TruncateForLog truncates a string to maxLen characters for safe logging.
// If the string is longer than maxLen, it appends "..." to indicate truncation.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
