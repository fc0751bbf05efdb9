package shared

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// Actor identifies who triggered an operation. It travels on the request
// context so that event subscribers (audit, notifications) can attribute work.
type Actor struct {
	UserID    uuid.UUID
	Role      string
	IPAddress string
	UserAgent string
}

// IsZero reports whether no authenticated actor is attached
func (a Actor) IsZero() bool {
	return a.UserID == uuid.Nil
}

// WithActor returns a copy of ctx carrying the actor
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, or the zero Actor
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
