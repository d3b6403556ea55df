package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Checker reports the health of a single optional component.
type Checker func(ctx context.Context) error
