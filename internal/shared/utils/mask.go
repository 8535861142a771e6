package utils

// MaskSecret masks a secret value for safe display, keeping only a short
// prefix. Example: "sk-live-abcdef123456" -> "sk-l****"
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
