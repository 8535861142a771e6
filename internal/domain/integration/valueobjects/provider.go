package valueobjects

import "fmt"

// Provider identifies an external account/device source.
type Provider string

const (
	ProviderWeatherStation Provider = "weather_station"
	ProviderSmartMeter     Provider = "smart_meter"

	// ProviderAquaLegacy was sunset in early 2025. Kept in the catalog so
	// existing rows resolve, but it can never reconnect.
	ProviderAquaLegacy Provider = "aqua_legacy"
)

// Availability describes a provider's lifecycle state in the catalog.
type Availability int

const (
	AvailabilityActive Availability = iota
	AvailabilityDisabled
	AvailabilityRemoved
)

var catalog = map[Provider]Availability{
	ProviderWeatherStation: AvailabilityActive,
	ProviderSmartMeter:     AvailabilityActive,
	ProviderAquaLegacy:     AvailabilityRemoved,
}

// NewProvider validates a raw provider name against the catalog.
func NewProvider(raw string) (Provider, error) {
	p := Provider(raw)
	if _, ok := catalog[p]; !ok {
		return "", fmt.Errorf("unknown provider: %s", raw)
	}
	return p, nil
}

func (p Provider) String() string {
	return string(p)
}

// IsKnown reports whether the provider exists in the catalog.
func (p Provider) IsKnown() bool {
	_, ok := catalog[p]
	return ok
}

// IsRemoved reports whether the provider has been permanently removed.
func (p Provider) IsRemoved() bool {
	return catalog[p] == AvailabilityRemoved
}

// SupportsPolling reports whether the provider exposes an out-of-band poll API.
func (p Provider) SupportsPolling() bool {
	return p == ProviderWeatherStation
}

// ActiveProviders lists providers currently accepting traffic.
func ActiveProviders() []Provider {
	var active []Provider
	for p, availability := range catalog {
		if availability == AvailabilityActive {
			active = append(active, p)
		}
	}
	return active
}
