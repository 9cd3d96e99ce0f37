package models

import "testing"

func TestParseUserRole(t *testing.T) {
	for _, valid := range []string{"admin", "customer", "consultant", "farmer", "vendor"} {
		role, ok := ParseUserRole(valid)
		if !ok || string(role) != valid {
			t.Errorf("ParseUserRole(%q) = (%q, %v), want valid", valid, role, ok)
		}
	}
	for _, invalid := range []string{"", "Admin", "superuser", "farmer "} {
		if _, ok := ParseUserRole(invalid); ok {
			t.Errorf("ParseUserRole(%q) should be rejected", invalid)
		}
	}
}

func TestCanListProducts(t *testing.T) {
	cases := map[UserRole]bool{
		UserRoleFarmer:     true,
		UserRoleVendor:     true,
		UserRoleAdmin:      false,
		UserRoleCustomer:   false,
		UserRoleConsultant: false,
	}
	for role, want := range cases {
		if got := role.CanListProducts(); got != want {
			t.Errorf("%s.CanListProducts() = %v, want %v", role, got, want)
		}
	}
}

func TestParseProductCategory(t *testing.T) {
	for _, valid := range []string{"vegetables", "fruits", "grains", "dairy", "specialty", "inputs"} {
		if _, ok := ParseProductCategory(valid); !ok {
			t.Errorf("ParseProductCategory(%q) should be accepted", valid)
		}
	}
	for _, invalid := range []string{"", "meat", "Vegetables"} {
		if _, ok := ParseProductCategory(invalid); ok {
			t.Errorf("ParseProductCategory(%q) should be rejected", invalid)
		}
	}
}
