package vendors

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

// VerificationState is the review lifecycle position of a vendor profile.
type VerificationState string

const (
	StateUnsubmitted VerificationState = "unsubmitted"
	StatePending     VerificationState = "pending"
	StateVerified    VerificationState = "verified"
	StateRejected    VerificationState = "rejected"
)

// Event drives a VerificationState transition.
type Event string

const (
	// EventSubmit is a vendor step 3 submission or profile resubmission.
	EventSubmit Event = "submit"
	EventVerify Event = "verify"
	EventReject Event = "reject"
	// EventClear is the admin reset of a rejection without a new submission.
	EventClear Event = "clear"
)

// StateOf reads the lifecycle state from the persisted verification fields.
func StateOf(v *models.Vendor) VerificationState {
	switch v.Status() {
	case enums.VerificationStatusPending:
		return StatePending
	case enums.VerificationStatusVerified:
		return StateVerified
	case enums.VerificationStatusRejected:
		return StateRejected
	default:
		return StateUnsubmitted
	}
}

// Transition returns the state reached by applying event, or a state conflict
// when the event is not allowed from s.
func (s VerificationState) Transition(event Event) (VerificationState, error) {
	switch event {
	case EventSubmit:
		return StatePending, nil
	case EventVerify:
		return StateVerified, nil
	case EventReject:
		return StateRejected, nil
	case EventClear:
		if s != StateRejected {
			return s, pkgerrors.New(pkgerrors.CodeStateConflict, "vendor is not in rejected status").
				WithDetails(map[string]string{"verificationStatus": string(s)})
		}
		return StatePending, nil
	default:
		return s, fmt.Errorf("unknown verification event %q", event)
	}
}

// Change is one transition request applied to a vendor row.
type Change struct {
	Event  Event
	Reason string
	At     time.Time
}

// ApplyChange moves v through the state machine and rewrites the verification
// fields so they agree with the resulting state.
func ApplyChange(v *models.Vendor, change Change) error {
	if v == nil {
		return fmt.Errorf("vendor is required")
	}
	next, err := StateOf(v).Transition(change.Event)
	if err != nil {
		return err
	}

	switch next {
	case StatePending:
		setStatus(v, enums.VerificationStatusPending)
		v.Verified = false
		v.RejectionReason = nil
		v.RejectedAt = nil
	case StateVerified:
		setStatus(v, enums.VerificationStatusVerified)
		v.Verified = true
		v.RejectionReason = nil
		v.RejectedAt = nil
	case StateRejected:
		reason := strings.TrimSpace(change.Reason)
		if reason == "" {
			return pkgerrors.Field("rejectionReason", "rejection reason is required")
		}
		at := change.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		setStatus(v, enums.VerificationStatusRejected)
		v.Verified = false
		v.RejectionReason = &reason
		v.RejectedAt = &at
	}
	return nil
}

func setStatus(v *models.Vendor, status enums.VerificationStatus) {
	v.VerificationStatus = &status
}
