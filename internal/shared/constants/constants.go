package constants

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// WebhookSignatureHeader is the single designated header carrying the
// provider webhook signature.
const WebhookSignatureHeader = "X-Webhook-Signature"

// Table names
const (
	TableIntegrations       = "integrations"
	TableIntegrationDevices = "integration_devices"
	TableSensorReadings     = "sensor_readings"
	TableIngestionFailures  = "ingestion_failures"
	TablePools              = "pools"
)
