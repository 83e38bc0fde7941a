package auth

import (
	"context"

	"github.com/aulalink/lms-service/internal/models"
)

// State is the terminal outcome of a role resolution.
type State string

const (
	// StateUnauthenticated means no authenticated identity exists.
	StateUnauthenticated State = "unauthenticated"
	// StateNoProfile means an identity exists but has no profile row.
	StateNoProfile State = "no_profile"
	// StateAuthorized means the identity resolved to a role.
	StateAuthorized State = "authorized"
)

// Session is the explicit session-context value threaded through the
// resolver and the route guard. Identity is nil when the request carries
// no valid credentials.
type Session struct {
	Identity *models.Identity
}

// ProfileSource fetches the profile row keyed by an identity's ID.
type ProfileSource interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// Resolution is the result of resolving a session to a role.
type Resolution struct {
	State   State
	Role    models.UserRole
	Profile *models.Profile
}

// Allowed reports whether the resolution grants access for the given
// required role set. Membership is strict: no role implies another.
func (r Resolution) Allowed(required ...models.UserRole) bool {
	if r.State != StateAuthorized {
		return false
	}
	for _, role := range required {
		if r.Role == role {
			return true
		}
	}
	return false
}

// Resolver turns a session into an authorization role by looking up the
// identity's profile. It performs at most one profile fetch per call and
// never caches across calls.
type Resolver struct {
	profiles ProfileSource
}

func NewResolver(profiles ProfileSource) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve maps the session to a terminal state. Any lookup failure
// degrades to the most restrictive outcome instead of returning an
// error, so a failed fetch can never upgrade privilege.
func (r *Resolver) Resolve(ctx context.Context, session Session) Resolution {
	if session.Identity == nil || session.Identity.ID == "" {
		return Resolution{State: StateUnauthenticated}
	}

	profile, err := r.profiles.GetByID(ctx, session.Identity.ID)
	if err != nil || profile == nil {
		return Resolution{State: StateNoProfile}
	}

	return Resolution{
		State:   StateAuthorized,
		Role:    models.ParseRole(string(profile.Role)),
		Profile: profile,
	}
}
