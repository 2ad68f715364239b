package statemachine

import (
	"errors"
	"time"

	"tiffin-api/models"
)

// ErrInvalidTransition is wrapped by every transition rejection
var ErrInvalidTransition = errors.New("invalid transition")

// chain is the happy-path delivery sequence, in order
var chain = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusOutForDelivery,
	models.StatusDelivered,
}

// forward maps each state to the next one in the chain. Each state may only
// advance one step at a time.
var forward = func() map[models.OrderStatus]models.OrderStatus {
	m := make(map[models.OrderStatus]models.OrderStatus, len(chain)-1)
	for i := 0; i < len(chain)-1; i++ {
		m[chain[i]] = chain[i+1]
	}
	return m
}()

// terminal states accept no further transitions
var terminal = map[models.OrderStatus]bool{
	models.StatusDelivered: true,
	models.StatusCancelled: true,
	models.StatusRejected:  true,
}

// IsTerminal reports whether a status accepts no further transitions
func IsTerminal(status models.OrderStatus) bool {
	return terminal[status]
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	if terminal[status] {
		return nil
	}
	next := []models.OrderStatus{}
	if to, ok := forward[status]; ok {
		next = append(next, to)
	}
	next = append(next, models.StatusCancelled, models.StatusRejected)
	return next
}

// CanTransition checks whether an order may move from one state to another.
// Cancelled and rejected are reachable from any non-terminal state; the
// delivery chain advances one step at a time.
func CanTransition(from, to models.OrderStatus) error {
	if terminal[from] {
		return errorf(string(from) + " is terminal, no further transitions allowed")
	}
	if to == models.StatusCancelled || to == models.StatusRejected {
		return nil
	}
	if forward[from] == to {
		return nil
	}
	return errorf(string(from) + " → " + string(to) + " is not allowed. Valid next states: " + describe(ValidTransitionsFrom(from)))
}

func errorf(detail string) error {
	return errors.Join(ErrInvalidTransition, errors.New(detail))
}

func describe(states []models.OrderStatus) string {
	if len(states) == 0 {
		return "none (terminal state)"
	}
	s := ""
	for i, st := range states {
		if i > 0 {
			s += ", "
		}
		s += string(st)
	}
	return s
}

// Apply validates the transition, sets the new status and appends exactly one
// history entry. Creation of an order is not a transition and is never logged.
func Apply(order *models.Order, to models.OrderStatus, actor models.Actor, note string) error {
	if err := CanTransition(order.Status, to); err != nil {
		return err
	}
	order.Status = to
	order.StatusHistory = append(order.StatusHistory, models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    to,
		UpdatedBy: actor,
		Note:      note,
		CreatedAt: time.Now(),
	})
	return nil
}

// Cancel records the cancellation sub-record and applies the cancelled
// transition. Only permitted while the order can still be cancelled.
func Cancel(order *models.Order, actor models.Actor, reason string) error {
	if !order.CanBeCancelled() {
		return errorf("order in status " + string(order.Status) + " can no longer be cancelled")
	}
	now := time.Now()
	order.Cancellation = models.Cancellation{
		Reason:       reason,
		CancelledBy:  actor,
		CancelledAt:  &now,
		RefundStatus: "pending",
	}
	return Apply(order, models.StatusCancelled, actor, reason)
}

// Transition describes one edge of the state machine for documentation
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor string             `json:"actor"`
}

// AllTransitions returns the full state machine for the info endpoint, in a
// stable order: the delivery chain first, then the cancel/reject edges.
func AllTransitions() []Transition {
	all := make([]Transition, 0, 3*(len(chain)-1))
	for i := 0; i < len(chain)-1; i++ {
		all = append(all, Transition{chain[i], chain[i+1], "vendor"})
	}
	for _, from := range chain[:len(chain)-1] {
		all = append(all,
			Transition{from, models.StatusCancelled, "user, vendor or admin"},
			Transition{from, models.StatusRejected, "vendor or admin"},
		)
	}
	return all
}
