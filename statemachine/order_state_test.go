package statemachine

import (
	"testing"

	"food-marketplace-api/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		actor    string
		want     bool
	}{
		{models.StatusPending, models.StatusApproved, "restaurantadmin", true},
		{models.StatusApproved, models.StatusAssigned, "restaurantadmin", true},
		{models.StatusAssigned, models.StatusDelivered, "deliverer", true},
		{models.StatusAssigned, models.StatusAssigned, "deliverer", true},
		{models.StatusDelivered, models.StatusAssigned, "deliverer", true},

		// Wrong actor
		{models.StatusPending, models.StatusApproved, "deliverer", false},
		{models.StatusAssigned, models.StatusDelivered, "restaurantadmin", false},
		{models.StatusPending, models.StatusApproved, "customer", false},

		// Transitions outside the table
		{models.StatusPending, models.StatusAssigned, "restaurantadmin", false},
		{models.StatusPending, models.StatusDelivered, "deliverer", false},
		{models.StatusDelivered, models.StatusPending, "restaurantadmin", false},
		{models.StatusApproved, models.StatusPending, "restaurantadmin", false},
		{models.StatusApproved, models.StatusDelivered, "deliverer", false},
		{"", models.StatusApproved, "restaurantadmin", false},
	}
	for _, tt := range tests {
		err := CanTransition(tt.from, tt.to, tt.actor)
		if got := err == nil; got != tt.want {
			t.Errorf("CanTransition(%q, %q, %q) allowed=%v, want %v",
				tt.from, tt.to, tt.actor, got, tt.want)
		}
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusPending)
	if len(nexts) != 1 || nexts[0] != models.StatusApproved {
		t.Errorf("ValidTransitionsFrom(pending) = %v, want [approved]", nexts)
	}
	if got := ValidTransitionsFrom(models.StatusAssigned); len(got) != 2 {
		t.Errorf("ValidTransitionsFrom(assigned) = %v, want delivered and assigned", got)
	}
}
