package services

import (
	"errors"
	"testing"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

func TestCanTransition_FullTable(t *testing.T) {
	all := []entities.Status{
		entities.StatusPending,
		entities.StatusConfirmed,
		entities.StatusCheckedOut,
		entities.StatusReturned,
		entities.StatusCancelled,
	}

	allowed := map[entities.Status]map[entities.Status]bool{
		entities.StatusPending: {
			entities.StatusConfirmed: true,
			entities.StatusCancelled: true,
		},
		entities.StatusConfirmed: {
			entities.StatusCheckedOut: true,
			entities.StatusCancelled:  true,
		},
		entities.StatusCheckedOut: {
			entities.StatusReturned:  true,
			entities.StatusCancelled: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			expected := allowed[from][to]
			if got := CanTransition(from, to); got != expected {
				t.Errorf("CanTransition(%s, %s) = %v, expected %v", from, to, got, expected)
			}
		}
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(entities.StatusPending, entities.StatusConfirmed); err != nil {
		t.Errorf("pending -> confirmed should be allowed: %v", err)
	}

	tests := []struct {
		name string
		from entities.Status
		to   entities.Status
	}{
		{"skip_confirmation", entities.StatusPending, entities.StatusCheckedOut},
		{"out_of_terminal_returned", entities.StatusReturned, entities.StatusCheckedOut},
		{"out_of_terminal_cancelled", entities.StatusCancelled, entities.StatusPending},
		{"backwards", entities.StatusConfirmed, entities.StatusPending},
		{"unknown_from", entities.Status("shipped"), entities.StatusPending},
		{"unknown_to", entities.StatusPending, entities.Status("archived")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if err == nil {
				t.Fatalf("Expected error for %s -> %s", tt.from, tt.to)
			}
			if !errors.Is(err, entities.ErrInvalidTransition) {
				t.Errorf("Expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestAllowedTransitions_TerminalStatesHaveNone(t *testing.T) {
	if got := AllowedTransitions(entities.StatusReturned); len(got) != 0 {
		t.Errorf("returned should have no outgoing transitions, got %v", got)
	}
	if got := AllowedTransitions(entities.StatusCancelled); len(got) != 0 {
		t.Errorf("cancelled should have no outgoing transitions, got %v", got)
	}
	if got := AllowedTransitions(entities.StatusPending); len(got) != 2 {
		t.Errorf("pending should have 2 outgoing transitions, got %v", got)
	}
}
