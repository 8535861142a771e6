package adapters

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"poolhub/internal/shared/constants"
	apperrors "poolhub/internal/shared/errors"
)

// verifySignature checks the designated signature header against the
// configured shared secret using a constant-time comparison. A provider with
// no configured secret fails closed unless the test-mode bypass is set.
// The secret itself is never logged or echoed into errors.
func verifySignature(headers map[string]string, secret string, allowUnverified bool) error {
	if secret == "" {
		if allowUnverified {
			return nil
		}
		return apperrors.NewValidationError("webhook secret is not configured for this provider")
	}

	sig := headers[http.CanonicalHeaderKey(constants.WebhookSignatureHeader)]
	if sig == "" {
		sig = headers[constants.WebhookSignatureHeader]
	}
	if sig == "" {
		return apperrors.NewUnauthorizedError("missing webhook signature")
	}

	if subtle.ConstantTimeCompare([]byte(sig), []byte(secret)) != 1 {
		return apperrors.NewUnauthorizedError("invalid webhook signature")
	}
	return nil
}

// parseNumeric extracts a float from a JSON-decoded value. Records whose
// value fails to parse are dropped by the caller.
func parseNumeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func optionalString(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func mapField(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

func sliceField(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key].([]interface{}); ok {
		return v
	}
	return nil
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
