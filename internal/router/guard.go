package router

import (
	"github.com/hongminglow/lifelink/internal/models"
)

// Identity is the view of the session the guard evaluates.
type Identity interface {
	IsAuthenticated() bool
	Roles() models.RoleSet
}

// State is the outcome class of a guard evaluation.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoRole
	AuthenticatedAuthorized
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedNoRole:
		return "authenticated-no-role"
	case AuthenticatedAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Decision tells the caller what to render. When Redirect is set the
// requested view must not be rendered. From carries the originally
// requested path on login redirects.
type Decision struct {
	State    State
	Path     string
	Redirect string
	From     string
}

// Allowed reports whether the requested view may be rendered as is.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Guard gates views behind authentication and role requirements.
type Guard struct {
	identity Identity
}

// NewGuard creates a guard over identity. Role membership is read from the
// identity on every evaluation.
func NewGuard(identity Identity) *Guard {
	return &Guard{identity: identity}
}

// Evaluate resolves a navigation to path.
func (g *Guard) Evaluate(path string) Decision {
	route, ok := Lookup(path)
	if !ok {
		return Decision{State: g.baseState(), Path: path, Redirect: NotFound}
	}

	if route.Access == Public {
		return Decision{State: g.baseState(), Path: path}
	}

	if !g.identity.IsAuthenticated() {
		return Decision{State: Unauthenticated, Path: path, Redirect: Login, From: path}
	}

	if route.Access == RequiresRole {
		roles := g.identity.Roles()
		if !roles.Has(route.Role) {
			return Decision{State: AuthenticatedNoRole, Path: path, Redirect: LandingFor(roles)}
		}
	}

	d := Decision{State: AuthenticatedAuthorized, Path: path}
	if route.Alias != "" {
		d.Redirect = route.Alias
	}
	return d
}

func (g *Guard) baseState() State {
	if g.identity.IsAuthenticated() {
		return AuthenticatedAuthorized
	}
	return Unauthenticated
}
