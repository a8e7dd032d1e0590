package model

import "context"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Resetter wipes every persisted user and task.
type Resetter interface {
	Reset(ctx context.Context) error
}
