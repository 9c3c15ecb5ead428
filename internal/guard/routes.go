package guard

import (
	"strings"

	"github.com/parceldesk/courier-client/internal/domain"
)

// routeRule binds a path prefix to a role requirement.
type routeRule struct {
	prefix   string
	required RequiredRole
}

// routeTable declares, in evaluation order, which role each destination
// demands. Longer prefixes come first so /customer/booking is matched
// before /customer. Paths not listed fall back to open access; only the
// dashboard and booking views sit behind the guard.
var routeTable = []routeRule{
	{"/customer", Require(domain.RoleCustomer)},
	{"/officer", Require(domain.RoleOfficer)},
	{"/login", RequireNone()},
	{"/register", RequireNone()},
}

// RequirementFor returns the role requirement for a navigation target.
func RequirementFor(path string) RequiredRole {
	for _, rule := range routeTable {
		if path == rule.prefix || strings.HasPrefix(path, rule.prefix+"/") {
			return rule.required
		}
	}
	return RequireNone()
}
