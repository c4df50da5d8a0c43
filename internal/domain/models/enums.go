package models

// BatchStatus is the lifecycle state of a batch (lote).
type BatchStatus string

const (
	BatchActive   BatchStatus = "activo"
	BatchInactive BatchStatus = "inactivo"
	BatchSold     BatchStatus = "vendido"
)

// HealthStatus is the health state of an individual animal.
type HealthStatus string

const (
	HealthHealthy    HealthStatus = "saludable"
	HealthSick       HealthStatus = "enfermo"
	HealthRecovering HealthStatus = "recuperandose"
)

// FeedType enumerates the feed phases used on the farm.
type FeedType string

const (
	FeedPreStarter FeedType = "Pre-iniciador"
	FeedStarter    FeedType = "Iniciador"
	FeedGrower     FeedType = "Crecimiento"
	FeedFinisher   FeedType = "Finalizador"
)

// Defaulter is implemented by inputs that carry default values for omitted fields.
type Defaulter interface {
	ApplyDefaults()
}
