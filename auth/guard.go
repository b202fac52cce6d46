package auth

import (
	"strings"

	"github.com/vendra/marketplace/models"
)

// RequiredRole is the declarative access requirement attached to a route.
type RequiredRole string

const (
	RequireNone     RequiredRole = "none"
	RequireCustomer RequiredRole = "customer"
	RequireVendor   RequiredRole = "vendor"
	RequireAdmin    RequiredRole = "admin"
)

// Decision is the guard outcome kind for a guarded navigation.
type Decision int

const (
	// Wait: state is still resolving; render a neutral loading state, do not
	// render guarded content and do not redirect.
	Wait Decision = iota
	// Render the guarded content.
	Render
	// Redirect to Outcome.Target.
	Redirect
)

// Outcome is the guard's verdict. Target is set only for Redirect.
type Outcome struct {
	Decision Decision
	Target   string
}

// Paths holds the redirect targets the guard chooses between. The three-way
// login split is load-bearing: a vendor-route visitor must land on the vendor
// login, not the generic one.
type Paths struct {
	GenericLogin string
	VendorLogin  string
	AdminLogin   string
	Home         string
}

// DefaultPaths returns the standard entry points.
func DefaultPaths() Paths {
	return Paths{
		GenericLogin: "/login",
		VendorLogin:  "/vendor/login",
		AdminLogin:   "/admin/login",
		Home:         "/",
	}
}

// loginFor picks the login target for an unauthenticated visitor.
func (p Paths) loginFor(required RequiredRole) string {
	switch required {
	case RequireAdmin:
		return p.AdminLogin
	case RequireVendor:
		return p.VendorLogin
	default:
		return p.GenericLogin
	}
}

// Evaluate is the pure route-guard decision. It must be re-evaluated on every
// snapshot change: a guard parked on Wait moves to Render or Redirect once
// resolving flips false, without a reload.
func Evaluate(required RequiredRole, snap Snapshot, paths Paths) Outcome {
	if snap.Resolving {
		return Outcome{Decision: Wait}
	}
	if required == RequireNone {
		return Outcome{Decision: Render}
	}
	if snap.Identity == nil {
		return Outcome{Decision: Redirect, Target: paths.loginFor(required)}
	}
	if snap.Role != models.Role(required) {
		// Authenticated but unauthorized for this surface: bounce to the
		// public landing page, not to a login screen.
		return Outcome{Decision: Redirect, Target: paths.Home}
	}
	return Outcome{Decision: Render}
}

// RouteRule maps a navigable path to its access requirement. Rules ending in
// "/*" match by prefix.
type RouteRule struct {
	Path     string
	Required RequiredRole
}

// RouteTable is the plain data table the guard consults, decoupled from the
// router. Rules are checked in order; first match wins. No two rules for the
// same path may conflict (configuration invariant, not runtime-checked).
type RouteTable struct {
	rules []RouteRule
}

// NewRouteTable builds a table from the given rules.
func NewRouteTable(rules ...RouteRule) *RouteTable {
	return &RouteTable{rules: rules}
}

// Required returns the access requirement for path, defaulting to none.
func (t *RouteTable) Required(path string) RequiredRole {
	for _, r := range t.rules {
		if prefix, ok := strings.CutSuffix(r.Path, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return r.Required
			}
			continue
		}
		if r.Path == path {
			return r.Required
		}
	}
	return RequireNone
}
