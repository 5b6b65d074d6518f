package lead

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline stage labels for Lead.Status. The set is flat: any status may
// follow any other, but unknown labels are rejected on update.
const (
	StatusNotContacted       = "Not Contacted"
	StatusNotAvailable       = "Not Available"
	StatusCallBack           = "Call Back"
	StatusFirstCall          = "First Call"
	StatusFollowUp           = "Follow Up"
	StatusWaitingForProposal = "Waiting For Proposal"
	StatusProposalApproved   = "Proposal Approved"
	StatusDoneDeal           = "Done Deal"
)

// Statuses lists every valid pipeline stage, in the usual funnel order.
var Statuses = []string{
	StatusNotContacted,
	StatusNotAvailable,
	StatusCallBack,
	StatusFirstCall,
	StatusFollowUp,
	StatusWaitingForProposal,
	StatusProposalApproved,
	StatusDoneDeal,
}

// ValidStatus reports whether s is a known pipeline stage.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Lead represents a row in the leads table.
type Lead struct {
	ID           uuid.UUID
	BusinessName string
	Name         string
	Email        string
	Phone        string
	Government   string
	Budget       float64
	HasWebsite   bool
	Message      string
	Status       string
	AssignedTo   uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Fields carries the submitter-provided parts of a new lead. ID is optional;
// when nil a new UUID is generated at insert time.
type Fields struct {
	ID           *uuid.UUID
	BusinessName string
	Name         string
	Email        string
	Phone        string
	Government   string
	Budget       float64
	HasWebsite   bool
	Message      string
}
