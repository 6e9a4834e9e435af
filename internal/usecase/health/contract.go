package health

import "context"

// DBPinger checks cache store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker checks generative model availability.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}
