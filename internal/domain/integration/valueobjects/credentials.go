package valueobjects

import (
	"time"

	"github.com/go-playground/validator/v10"

	"poolhub/internal/shared/biztime"
	apperrors "poolhub/internal/shared/errors"
	"poolhub/internal/shared/utils"
)

// Poll interval bounds and the decrease cooldown for weather stations.
// Lowering the interval more than once per cooldown window would let a
// misbehaving client hammer the rate-limited upstream.
const (
	PollIntervalMinMinutes = 5
	PollIntervalMaxMinutes = 1440

	PollIntervalLowerCooldown = 6 * time.Hour
)

var validate = validator.New()

// Credentials is the tagged union of per-provider credential shapes.
// Opaque is the fallback for providers without a bespoke shape.
type Credentials interface {
	Kind() string
	// Masked returns the public view: secrets reduced to booleans or
	// partial previews, never raw values.
	Masked() map[string]interface{}
	// ToMap serializes for the persistence blob.
	ToMap() map[string]interface{}
}

// WeatherStationCredentials holds the weather-station API key and the
// bounded poll-interval tunable.
type WeatherStationCredentials struct {
	APIKey                string `validate:"omitempty,min=8"`
	PollIntervalMinutes   int    `validate:"omitempty,min=5,max=1440"`
	PollIntervalLoweredAt *time.Time
}

func (c WeatherStationCredentials) Kind() string {
	return "weather_station"
}

func (c WeatherStationCredentials) Masked() map[string]interface{} {
	m := map[string]interface{}{
		"has_api_key": c.APIKey != "",
	}
	if c.APIKey != "" {
		m["api_key_preview"] = utils.MaskSecret(c.APIKey)
	}
	if c.PollIntervalMinutes > 0 {
		m["poll_interval_minutes"] = c.PollIntervalMinutes
	}
	return m
}

func (c WeatherStationCredentials) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.APIKey != "" {
		m["api_key"] = c.APIKey
	}
	if c.PollIntervalMinutes > 0 {
		m["poll_interval_minutes"] = c.PollIntervalMinutes
	}
	if c.PollIntervalLoweredAt != nil {
		m["poll_interval_lowered_at"] = biztime.FormatMetadataTime(*c.PollIntervalLoweredAt)
	}
	return m
}

// Validate checks structural bounds on the credential fields.
func (c WeatherStationCredentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewValidationError("invalid weather station credentials", err.Error())
	}
	return nil
}

// WithPollInterval applies the bounded merge rule: the interval may be
// raised or set for the first time at any point, but only lowered once per
// cooldown window measured from the last time it was lowered.
func (c WeatherStationCredentials) WithPollInterval(requested int, now time.Time) (WeatherStationCredentials, error) {
	if requested < PollIntervalMinMinutes || requested > PollIntervalMaxMinutes {
		return c, apperrors.NewValidationError("poll interval out of range")
	}

	next := c
	if c.PollIntervalMinutes == 0 || requested >= c.PollIntervalMinutes {
		next.PollIntervalMinutes = requested
		return next, nil
	}

	if c.PollIntervalLoweredAt != nil && now.Sub(*c.PollIntervalLoweredAt) < PollIntervalLowerCooldown {
		return c, apperrors.NewValidationError("poll interval can only be lowered once every 6 hours")
	}

	next.PollIntervalMinutes = requested
	next.PollIntervalLoweredAt = &now
	return next, nil
}

// SmartMeterCredentials holds the smart-meter API token and meter number.
type SmartMeterCredentials struct {
	APIToken    string `validate:"omitempty,min=8"`
	MeterNumber string `validate:"omitempty,max=64"`
}

func (c SmartMeterCredentials) Kind() string {
	return "smart_meter"
}

func (c SmartMeterCredentials) Masked() map[string]interface{} {
	m := map[string]interface{}{
		"has_api_token": c.APIToken != "",
	}
	if c.MeterNumber != "" {
		m["meter_number"] = c.MeterNumber
	}
	return m
}

func (c SmartMeterCredentials) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	if c.APIToken != "" {
		m["api_token"] = c.APIToken
	}
	if c.MeterNumber != "" {
		m["meter_number"] = c.MeterNumber
	}
	return m
}

func (c SmartMeterCredentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewValidationError("invalid smart meter credentials", err.Error())
	}
	return nil
}

// OpaqueCredentials is the unknown-variant fallback: stored and returned
// verbatim, masked to key presence only.
type OpaqueCredentials map[string]interface{}

func (c OpaqueCredentials) Kind() string {
	return "opaque"
}

func (c OpaqueCredentials) Masked() map[string]interface{} {
	m := make(map[string]interface{}, len(c))
	for k := range c {
		m[k] = true
	}
	return m
}

func (c OpaqueCredentials) ToMap() map[string]interface{} {
	return map[string]interface{}(c)
}

// CredentialsFromMap rebuilds the typed credential variant from the stored
// blob. Unknown providers fall back to the opaque variant.
func CredentialsFromMap(provider Provider, m map[string]interface{}) Credentials {
	if m == nil {
		m = map[string]interface{}{}
	}

	switch provider {
	case ProviderWeatherStation:
		c := WeatherStationCredentials{}
		if v, ok := m["api_key"].(string); ok {
			c.APIKey = v
		}
		if v, ok := toInt(m["poll_interval_minutes"]); ok {
			c.PollIntervalMinutes = v
		}
		if v, ok := m["poll_interval_lowered_at"].(string); ok {
			if t, err := biztime.ParseMetadataTime(v); err == nil {
				c.PollIntervalLoweredAt = &t
			}
		}
		return c
	case ProviderSmartMeter:
		c := SmartMeterCredentials{}
		if v, ok := m["api_token"].(string); ok {
			c.APIToken = v
		}
		if v, ok := m["meter_number"].(string); ok {
			c.MeterNumber = v
		}
		return c
	}
	return OpaqueCredentials(m)
}

// toInt handles the int/float64 ambiguity of JSON-decoded numbers.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
