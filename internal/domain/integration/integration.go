package integration

import (
	"fmt"
	"time"

	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/shared/biztime"
	"poolhub/internal/shared/id"
)

// Integration is the per-user connection record to a provider.
// Invariant: unique per (userID, provider).
type Integration struct {
	id                uint
	sid               string
	userID            uint
	provider          vo.Provider
	status            vo.IntegrationStatus
	scopes            []string
	externalAccountID *string
	credentials       vo.Credentials
	lastPolledAt      *time.Time

	createdAt time.Time
	updatedAt time.Time
}

func NewIntegration(userID uint, provider vo.Provider) (*Integration, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !provider.IsKnown() {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	now := biztime.NowUTC()
	return &Integration{
		sid:         id.MustGenerateWithPrefix(id.PrefixIntegration, id.DefaultLength),
		userID:      userID,
		provider:    provider,
		status:      vo.IntegrationStatusConnected,
		credentials: vo.CredentialsFromMap(provider, nil),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ApplyConnectResult records the adapter's connect/callback output.
func (i *Integration) ApplyConnectResult(externalAccountID *string, scopes []string, credentials vo.Credentials) {
	if externalAccountID != nil && *externalAccountID != "" {
		i.externalAccountID = externalAccountID
	}
	if len(scopes) > 0 {
		i.scopes = scopes
	}
	if credentials != nil {
		i.credentials = credentials
	}
	i.status = vo.IntegrationStatusConnected
	i.updatedAt = biztime.NowUTC()
}

// MarkPolled records a completed poll cycle for this integration.
func (i *Integration) MarkPolled(now time.Time) {
	i.lastPolledAt = &now
	i.updatedAt = now
}

// PollDue reports whether the integration's poll interval has elapsed.
// Integrations without a configured interval fall back to defaultInterval.
func (i *Integration) PollDue(now time.Time, defaultInterval time.Duration) bool {
	interval := defaultInterval
	if ws, ok := i.credentials.(vo.WeatherStationCredentials); ok && ws.PollIntervalMinutes > 0 {
		interval = time.Duration(ws.PollIntervalMinutes) * time.Minute
	}
	if i.lastPolledAt == nil {
		return true
	}
	return now.Sub(*i.lastPolledAt) >= interval
}

func (i *Integration) ID() uint {
	return i.id
}

func (i *Integration) SID() string {
	return i.sid
}

func (i *Integration) UserID() uint {
	return i.userID
}

func (i *Integration) Provider() vo.Provider {
	return i.provider
}

func (i *Integration) Status() vo.IntegrationStatus {
	return i.status
}

func (i *Integration) Scopes() []string {
	return i.scopes
}

func (i *Integration) ExternalAccountID() *string {
	return i.externalAccountID
}

func (i *Integration) Credentials() vo.Credentials {
	return i.credentials
}

func (i *Integration) LastPolledAt() *time.Time {
	return i.lastPolledAt
}

func (i *Integration) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Integration) UpdatedAt() time.Time {
	return i.updatedAt
}

// SetID sets the integration ID after persistence (used by repository after Create)
func (i *Integration) SetID(id uint) {
	i.id = id
}

// IntegrationReconstructParams carries persisted state back into the domain.
type IntegrationReconstructParams struct {
	ID                uint
	SID               string
	UserID            uint
	Provider          vo.Provider
	Status            vo.IntegrationStatus
	Scopes            []string
	ExternalAccountID *string
	Credentials       vo.Credentials
	LastPolledAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func ReconstructIntegration(p IntegrationReconstructParams) *Integration {
	return &Integration{
		id:                p.ID,
		sid:               p.SID,
		userID:            p.UserID,
		provider:          p.Provider,
		status:            p.Status,
		scopes:            p.Scopes,
		externalAccountID: p.ExternalAccountID,
		credentials:       p.Credentials,
		lastPolledAt:      p.LastPolledAt,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}
}
