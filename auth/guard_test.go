package auth

import (
	"testing"

	"github.com/vendra/marketplace/models"
)

func identity(id string) *models.Identity { return &models.Identity{ID: id, Email: id + "@example.com"} }

func TestEvaluate(t *testing.T) {
	paths := DefaultPaths()
	cases := []struct {
		name     string
		required RequiredRole
		snap     Snapshot
		decision Decision
		target   string
	}{
		{
			name:     "resolving waits even for public routes",
			required: RequireNone,
			snap:     Snapshot{Resolving: true},
			decision: Wait,
		},
		{
			name:     "resolving waits with identity present",
			required: RequireVendor,
			snap:     Snapshot{Identity: identity("a"), Role: models.RoleVendor, Resolving: true},
			decision: Wait,
		},
		{
			name:     "public route renders for anonymous",
			required: RequireNone,
			snap:     Snapshot{},
			decision: Render,
		},
		{
			name:     "public route renders for any role",
			required: RequireNone,
			snap:     Snapshot{Identity: identity("a"), Role: models.RoleAdmin},
			decision: Render,
		},
		{
			name:     "anonymous on customer route goes to generic login",
			required: RequireCustomer,
			snap:     Snapshot{},
			decision: Redirect,
			target:   "/login",
		},
		{
			name:     "anonymous on vendor route goes to vendor login",
			required: RequireVendor,
			snap:     Snapshot{},
			decision: Redirect,
			target:   "/vendor/login",
		},
		{
			name:     "anonymous on admin route goes to admin login",
			required: RequireAdmin,
			snap:     Snapshot{},
			decision: Redirect,
			target:   "/admin/login",
		},
		{
			name:     "customer on vendor route bounces home",
			required: RequireVendor,
			snap:     Snapshot{Identity: identity("a"), Role: models.RoleCustomer},
			decision: Redirect,
			target:   "/",
		},
		{
			name:     "vendor on admin route bounces home not admin login",
			required: RequireAdmin,
			snap:     Snapshot{Identity: identity("a"), Role: models.RoleVendor},
			decision: Redirect,
			target:   "/",
		},
		{
			name:     "admin on customer route bounces home",
			required: RequireCustomer,
			snap:     Snapshot{Identity: identity("a"), Role: models.RoleAdmin},
			decision: Redirect,
			target:   "/",
		},
		{
			name:     "matching role renders",
			required: RequireVendor,
			snap:     Snapshot{Identity: identity("a"), Role: models.RoleVendor},
			decision: Render,
		},
		{
			name:     "matching admin renders",
			required: RequireAdmin,
			snap:     Snapshot{Identity: identity("a"), Role: models.RoleAdmin},
			decision: Render,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.required, tc.snap, paths)
			if got.Decision != tc.decision {
				t.Fatalf("decision = %v, want %v", got.Decision, tc.decision)
			}
			if got.Target != tc.target {
				t.Fatalf("target = %q, want %q", got.Target, tc.target)
			}
		})
	}
}

func TestEvaluate_WaitCarriesNoTarget(t *testing.T) {
	out := Evaluate(RequireAdmin, Snapshot{Resolving: true}, DefaultPaths())
	if out.Decision != Wait || out.Target != "" {
		t.Fatalf("wait must not carry a redirect target, got %+v", out)
	}
}

func TestRouteTable_FirstMatchWins(t *testing.T) {
	table := NewRouteTable(
		RouteRule{Path: "/api/vendor/apply", Required: RequireCustomer},
		RouteRule{Path: "/api/vendor/*", Required: RequireVendor},
		RouteRule{Path: "/api/admin/*", Required: RequireAdmin},
	)
	cases := []struct {
		path string
		want RequiredRole
	}{
		{"/api/vendor/apply", RequireCustomer},
		{"/api/vendor/products", RequireVendor},
		{"/api/vendor", RequireVendor},
		{"/api/admin/invites", RequireAdmin},
		{"/api/products", RequireNone},
		{"/", RequireNone},
		{"/api/vendorish", RequireNone},
	}
	for _, tc := range cases {
		if got := table.Required(tc.path); got != tc.want {
			t.Errorf("Required(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestRouteTable_PrefixDoesNotMatchSiblings(t *testing.T) {
	table := NewRouteTable(RouteRule{Path: "/admin/*", Required: RequireAdmin})
	if got := table.Required("/administrator"); got != RequireNone {
		t.Fatalf("prefix rule leaked onto sibling path: %q", got)
	}
	if got := table.Required("/admin/settings/deep"); got != RequireAdmin {
		t.Fatalf("nested path under prefix should match, got %q", got)
	}
}
