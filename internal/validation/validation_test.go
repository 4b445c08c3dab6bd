package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("email", "  ", v)
	if v.Empty() {
		t.Fatal("expected violation for blank value")
	}
	v = Violations{}
	Required("email", "a@b.c", v)
	if !v.Empty() {
		t.Fatalf("unexpected violation: %v", v)
	}
}

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"too short", "short1A", false},
		{"no uppercase", "longenough1", false},
		{"no digit", "LongEnough", false},
		{"valid", "LongEnough1", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Violations{}
			Password("password", tc.password, v)
			if got := v.Empty(); got != tc.ok {
				t.Fatalf("password %q: expected ok=%v, violations=%v", tc.password, tc.ok, v)
			}
		})
	}
}

func TestViolationsDetail(t *testing.T) {
	v := Violations{}
	Required("email", "", v)
	Required("password", "", v)
	want := "email: is required; password: is required"
	if got := v.Detail(); got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}
