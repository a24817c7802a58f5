package model

import "testing"

func TestOrderLabel(t *testing.T) {
	order := Order{ID: 7}
	if got := order.Label("Widget"); got != "Order 7 - Widget" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		if !ValidOrderStatus(status) {
			t.Errorf("%q should be valid", status)
		}
	}
	for _, status := range []string{"", "pending", "Refunded", "SHIPPED"} {
		if ValidOrderStatus(status) {
			t.Errorf("%q should be invalid", status)
		}
	}
}
