// SPDX-License-Identifier: MPL-2.0

package request

import (
	"fmt"
)

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionRead   Action = "READ"
	ActionList   Action = "LIST"
)

// Action is a resource lifecycle operation.
type Action string

// Actions returns every action in declaration order.
func Actions() []Action {
	return []Action{ActionCreate, ActionUpdate, ActionDelete, ActionRead, ActionList}
}

// ParseAction returns the Action labelled s.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Mutating reports whether a changes the resource. Only mutating actions may return
// an in-progress status.
func (a Action) Mutating() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// String returns the action label.
func (a Action) String() string { return string(a) }
