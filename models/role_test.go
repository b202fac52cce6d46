package models

import "testing"

func TestResolveRole(t *testing.T) {
	cases := []struct {
		name string
		rows []Role
		want Role
	}{
		{"no rows defaults to customer", nil, RoleCustomer},
		{"single customer", []Role{RoleCustomer}, RoleCustomer},
		{"single vendor", []Role{RoleVendor}, RoleVendor},
		{"single admin", []Role{RoleAdmin}, RoleAdmin},
		{"vendor beats customer", []Role{RoleCustomer, RoleVendor}, RoleVendor},
		{"admin beats vendor regardless of order", []Role{RoleVendor, RoleAdmin}, RoleAdmin},
		{"admin first short-circuits", []Role{RoleAdmin, RoleVendor, RoleCustomer}, RoleAdmin},
		{"duplicate rows are harmless", []Role{RoleVendor, RoleVendor, RoleCustomer}, RoleVendor},
		{"unknown role rows are ignored", []Role{"moderator", RoleCustomer}, RoleCustomer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := make([]RoleAssignment, 0, len(tc.rows))
			for _, r := range tc.rows {
				rows = append(rows, RoleAssignment{IdentityID: "id-1", Role: r})
			}
			if got := ResolveRole(rows); got != tc.want {
				t.Fatalf("ResolveRole(%v) = %q, want %q", tc.rows, got, tc.want)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleCustomer, RoleVendor, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	for _, r := range []Role{"", "moderator", "ADMIN"} {
		if r.Valid() {
			t.Errorf("%q should be invalid", r)
		}
	}
}
