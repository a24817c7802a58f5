package validation

import "testing"

func TestPhone(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"+12345678901", true},
		{"123456789", true},
		{"123456789012345", true},
		{"12345678", false},         // too short
		{"1234567890123456", false}, // too long
		{"+1234567a901", false},
		{"++12345678901", false},
		{"", true}, // emptiness is Required's concern
	}
	for _, tc := range cases {
		v := Violations{}
		Phone("phone", tc.value, v)
		if tc.ok && !v.Empty() {
			t.Errorf("Phone(%q): unexpected violation %v", tc.value, v)
		}
		if !tc.ok && v.Empty() {
			t.Errorf("Phone(%q): expected violation", tc.value)
		}
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"a@x.com", true},
		{"first.last@sub.example.org", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@x.com", false},
	}
	for _, tc := range cases {
		v := Violations{}
		Email("email", tc.value, v)
		if tc.ok && !v.Empty() {
			t.Errorf("Email(%q): unexpected violation %v", tc.value, v)
		}
		if !tc.ok && v.Empty() {
			t.Errorf("Email(%q): expected violation", tc.value)
		}
	}
}

func TestOneOf(t *testing.T) {
	allowed := []string{"Pending", "Shipped"}

	v := Violations{}
	OneOf("status", "Pending", allowed, v)
	if !v.Empty() {
		t.Fatalf("unexpected violation: %v", v)
	}

	OneOf("status", "Refunded", allowed, v)
	if v["status"] != "invalid_value" {
		t.Fatalf("expected invalid_value, got %v", v)
	}
}

func TestNumericBounds(t *testing.T) {
	v := Violations{}
	NonNegativeFloat("price", -0.01, v)
	PositiveInt("quantity", 0, v)
	NonNegativeInt("stock", -1, v)
	if v["price"] != "must_be_non_negative" || v["quantity"] != "must_be_positive" || v["stock"] != "must_be_non_negative" {
		t.Fatalf("unexpected violations: %v", v)
	}
}
