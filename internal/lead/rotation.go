package lead

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoAgentsAvailable is returned when a lead is submitted while the active
// sales roster is empty. The lead is not persisted.
var ErrNoAgentsAvailable = errors.New("no sales agents available")

// NextAgent picks the agent that should receive the next lead. agents is the
// active sales roster in stable order (creation order); last is the agent who
// received the previous lead, or nil if none.
//
// The rotation restarts at index 0 when there is no previous assignment or
// when the previously-assigned agent has since left the roster. Otherwise the
// next agent is the one after last, wrapping around.
func NextAgent(agents []uuid.UUID, last *uuid.UUID) (uuid.UUID, error) {
	if len(agents) == 0 {
		return uuid.Nil, ErrNoAgentsAvailable
	}

	if last == nil {
		return agents[0], nil
	}

	for i, id := range agents {
		if id == *last {
			return agents[(i+1)%len(agents)], nil
		}
	}

	return agents[0], nil
}
