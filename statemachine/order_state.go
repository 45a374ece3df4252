package statemachine

import (
	"errors"

	"warteg-web/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string // "admin", "customer", "system"
}

// validTransitions is the authoritative state machine definition.
// The backend enforces the same rules; this copy lets screens offer only
// legal next statuses without a round trip.
var validTransitions = []Transition{
	// Proof-of-payment upload moves the order into verification
	{From: models.StatusPendingPayment, To: models.StatusWaitingVerification, Actor: "system"},
	// Customer or admin can cancel before payment is verified
	{From: models.StatusPendingPayment, To: models.StatusCancelled, Actor: "customer"},
	{From: models.StatusPendingPayment, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusWaitingVerification, To: models.StatusCancelled, Actor: "customer"},
	// Admin verifies the payment proof, or rejects it
	{From: models.StatusWaitingVerification, To: models.StatusProcessing, Actor: "admin"},
	{From: models.StatusWaitingVerification, To: models.StatusCancelled, Actor: "admin"},
	// Admin walks the order through the kitchen pipeline
	{From: models.StatusProcessing, To: models.StatusPacking, Actor: "admin"},
	{From: models.StatusPacking, To: models.StatusShipped, Actor: "admin"},
	{From: models.StatusShipped, To: models.StatusCompleted, Actor: "admin"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
// for the given actor.
func ValidTransitionsFrom(status models.OrderStatus, actor string) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && t.Actor == actor && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid next states for " + actor + ": " + describeValidFrom(from, actor),
	)
}

func describeValidFrom(status models.OrderStatus, actor string) string {
	nexts := ValidTransitionsFrom(status, actor)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
