package guard

import "github.com/parceldesk/courier-client/internal/domain"

// Navigation targets used by redirect decisions.
const (
	LoginPath             = "/login"
	CustomerDashboardPath = "/customer"
	OfficerDashboardPath  = "/officer"
)

// RequiredRole describes what a destination demands of its visitor:
// nothing, or a specific role.
type RequiredRole struct {
	Role domain.Role
	// Any marks the destination as open to every visitor.
	Any bool
}

// RequireNone allows every visitor.
func RequireNone() RequiredRole { return RequiredRole{Any: true} }

// Require restricts the destination to the given role.
func Require(role domain.Role) RequiredRole { return RequiredRole{Role: role} }

// Decision is the outcome of evaluating a navigation attempt. When Allow
// is false, RedirectTo names where to send the visitor instead. Performing
// the redirect is the caller's job; the decision itself has no side
// effects.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(target string) Decision { return Decision{RedirectTo: target} }

// Evaluate decides whether a principal may enter a destination with the
// given role requirement. Absent principals go to login; a role mismatch
// goes to the visitor's own dashboard; an unrecognized role goes to login.
func Evaluate(required RequiredRole, principal *domain.Principal) Decision {
	if principal == nil {
		return redirect(LoginPath)
	}
	if required.Any {
		return allow()
	}
	if principal.Role != required.Role {
		return redirect(homeFor(principal.Role))
	}
	return allow()
}

// homeFor maps a role to its dashboard, defaulting to login for anything
// outside the closed role set.
func homeFor(role domain.Role) string {
	switch role {
	case domain.RoleCustomer:
		return CustomerDashboardPath
	case domain.RoleOfficer:
		return OfficerDashboardPath
	default:
		return LoginPath
	}
}
