package domain

import "testing"

func TestCapabilities_PerRole(t *testing.T) {
	tests := []struct {
		role Role
		can  []Capability
		cant []Capability
	}{
		{
			role: RoleUser,
			cant: []Capability{CapManageOwnProducts, CapManageAllProducts, CapManageOrders, CapManageUsers},
		},
		{
			role: RoleSeller,
			can:  []Capability{CapManageOwnProducts},
			cant: []Capability{CapManageAllProducts, CapManageOrders, CapManageUsers},
		},
		{
			role: RoleAdmin,
			can:  []Capability{CapManageOwnProducts, CapManageAllProducts, CapManageOrders, CapManageUsers},
		},
	}

	for _, tt := range tests {
		caps := Capabilities(tt.role)
		for _, c := range tt.can {
			if !caps[c] {
				t.Errorf("Capabilities(%s)[%s] = false, want true", tt.role, c)
			}
		}
		for _, c := range tt.cant {
			if caps[c] {
				t.Errorf("Capabilities(%s)[%s] = true, want false", tt.role, c)
			}
		}
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleSeller, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("Valid(%s) = false, want true", r)
		}
	}
	if Role("superuser").Valid() {
		t.Error(`Valid("superuser") = true, want false`)
	}
}
