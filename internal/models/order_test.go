package models

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanCancel(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		o := Order{Status: tt.status}
		if got := o.CanCancel(); got != tt.want {
			t.Errorf("CanCancel() avec statut %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "paid", "PENDING", "refunded"} {
		if ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = true, want false", s)
		}
	}
}

func TestOrderNumber(t *testing.T) {
	id, _ := primitive.ObjectIDFromHex("655f1a2b3c4d5e6f7a8b9c0d")
	o := Order{ID: id}

	got := o.OrderNumber()
	want := "ORD-7A8B9C0D"
	if got != want {
		t.Errorf("OrderNumber() = %q, want %q", got, want)
	}
	if !strings.HasPrefix(got, "ORD-") {
		t.Errorf("OrderNumber() doit commencer par ORD-, got %q", got)
	}
}
