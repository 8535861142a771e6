package valueobjects

import "fmt"

// IntegrationStatus is the connection state of an integration.
type IntegrationStatus string

const (
	IntegrationStatusConnected IntegrationStatus = "connected"
	IntegrationStatusError     IntegrationStatus = "error"
)

func NewIntegrationStatus(raw string) (IntegrationStatus, error) {
	s := IntegrationStatus(raw)
	switch s {
	case IntegrationStatusConnected, IntegrationStatusError:
		return s, nil
	}
	return "", fmt.Errorf("invalid integration status: %s", raw)
}

func (s IntegrationStatus) String() string {
	return string(s)
}

// DeviceStatus is the discovery state of an integration device.
type DeviceStatus string

const (
	DeviceStatusDiscovered DeviceStatus = "discovered"
	DeviceStatusLinked     DeviceStatus = "linked"
)

func NewDeviceStatus(raw string) (DeviceStatus, error) {
	s := DeviceStatus(raw)
	switch s {
	case DeviceStatusDiscovered, DeviceStatusLinked:
		return s, nil
	}
	return "", fmt.Errorf("invalid device status: %s", raw)
}

func (s DeviceStatus) String() string {
	return string(s)
}
