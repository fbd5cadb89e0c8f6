package health

import "context"

// DBPinger checks snapshot database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker reports whether the document store has been populated.
type StoreChecker interface {
	IsPopulated(ctx context.Context) bool
}
