package contracts

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// IdentityResolver turns a request credential into the caller's user id.
// Implementations return an Unauthorized AppError and never panic.
type IdentityResolver interface {
	Resolve(r *http.Request) (string, error)
}

// Notifier delivers a best-effort message to a user's inbox. It has no error
// result: callers must never depend on delivery.
type Notifier interface {
	Notify(ctx context.Context, userID, message, notificationType string)
}

// Locker serializes read-check-write sequences on one key across instances.
// release is safe to defer and never fails the caller.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// CacheInvalidator drops a cached entity after its store copy changed.
type CacheInvalidator interface {
	Invalidate(id string)
}
