package types

type ServiceMode string

func (m ServiceMode) String() string {
	return string(m)
}

// API Service - Serves identity, session ingestion, dashboards and the live feed
// Ingest Worker - Persists telemetry records published to the broker by trackers
const (
	APIService   ServiceMode = "api"
	IngestWorker ServiceMode = "ingest-worker"
)

// UserRole is the role stored with every account.
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const UserRoleStudent UserRole = "STUDENT"

// Source tells where a session listing came from.
type Source string

func (s Source) String() string {
	return string(s)
}

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// FocusLevel buckets a session by its focus percentage.
type FocusLevel string

const (
	FocusExcellent FocusLevel = "excellent"
	FocusGood      FocusLevel = "good"
	FocusFair      FocusLevel = "fair"
	FocusPoor      FocusLevel = "poor"
)

// Ingestion channels used for metrics labels.
const (
	ChannelHTTP  = "http"
	ChannelQueue = "queue"
)
