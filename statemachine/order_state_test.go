package statemachine

import (
	"testing"

	"warteg-web/models"
)

func TestAdminPipelineTransitions(t *testing.T) {
	steps := []struct {
		from, to models.OrderStatus
	}{
		{models.StatusWaitingVerification, models.StatusProcessing},
		{models.StatusProcessing, models.StatusPacking},
		{models.StatusPacking, models.StatusShipped},
		{models.StatusShipped, models.StatusCompleted},
	}
	for _, s := range steps {
		if err := CanTransition(s.from, s.to, "admin"); err != nil {
			t.Errorf("admin %s -> %s should be allowed: %v", s.from, s.to, err)
		}
	}
}

func TestIllegalTransitionsRejected(t *testing.T) {
	if err := CanTransition(models.StatusPendingPayment, models.StatusProcessing, "admin"); err == nil {
		t.Error("admin must not skip verification")
	}
	if err := CanTransition(models.StatusCompleted, models.StatusCancelled, "admin"); err == nil {
		t.Error("completed orders must be terminal")
	}
	if err := CanTransition(models.StatusProcessing, models.StatusCancelled, "customer"); err == nil {
		t.Error("customer must not cancel after verification")
	}
}

func TestCustomerCanCancelBeforeVerification(t *testing.T) {
	if err := CanTransition(models.StatusPendingPayment, models.StatusCancelled, "customer"); err != nil {
		t.Errorf("pending payment cancel: %v", err)
	}
	if err := CanTransition(models.StatusWaitingVerification, models.StatusCancelled, "customer"); err != nil {
		t.Errorf("waiting verification cancel: %v", err)
	}
}

func TestProofUploadIsSystemTransition(t *testing.T) {
	if err := CanTransition(models.StatusPendingPayment, models.StatusWaitingVerification, "system"); err != nil {
		t.Errorf("system proof upload transition: %v", err)
	}
	if err := CanTransition(models.StatusPendingPayment, models.StatusWaitingVerification, "customer"); err == nil {
		t.Error("customer must not move an order into verification directly")
	}
}

func TestValidTransitionsFromFiltersActor(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusWaitingVerification, "admin")
	if len(nexts) != 2 {
		t.Fatalf("admin next states from WAITING_VERIFICATION = %v, want 2", nexts)
	}
	if nexts := ValidTransitionsFrom(models.StatusCompleted, "admin"); len(nexts) != 0 {
		t.Fatalf("completed must have no next states, got %v", nexts)
	}
}
