package vendors

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

func TestTransitionTable(t *testing.T) {
	states := []VerificationState{StateUnsubmitted, StatePending, StateVerified, StateRejected}
	for _, from := range states {
		for event, want := range map[Event]VerificationState{
			EventSubmit: StatePending,
			EventVerify: StateVerified,
			EventReject: StateRejected,
		} {
			got, err := from.Transition(event)
			if err != nil {
				t.Fatalf("%s --%s--> unexpected error %v", from, event, err)
			}
			if got != want {
				t.Fatalf("%s --%s--> expected %s got %s", from, event, want, got)
			}
		}
	}
}

func TestClearOnlyFromRejected(t *testing.T) {
	got, err := StateRejected.Transition(EventClear)
	if err != nil || got != StatePending {
		t.Fatalf("expected rejected to clear to pending, got %s %v", got, err)
	}
	for _, from := range []VerificationState{StateUnsubmitted, StatePending, StateVerified} {
		_, err := from.Transition(EventClear)
		if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			t.Fatalf("expected state conflict clearing from %s, got %v", from, err)
		}
	}
}

func TestApplyChangeRejectThenVerify(t *testing.T) {
	v := models.NewVendor(uuid.New())
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	if err := ApplyChange(v, Change{Event: EventReject, Reason: "  ID document illegible  ", At: at}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if v.Status() != enums.VerificationStatusRejected || v.Verified {
		t.Fatalf("expected rejected and unverified, got %s %v", v.Status(), v.Verified)
	}
	if v.RejectionReason == nil || *v.RejectionReason != "ID document illegible" {
		t.Fatalf("expected trimmed reason, got %v", v.RejectionReason)
	}
	if v.RejectedAt == nil || !v.RejectedAt.Equal(at) {
		t.Fatalf("expected rejectedAt %s got %v", at, v.RejectedAt)
	}

	if err := ApplyChange(v, Change{Event: EventVerify}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !v.Verified || v.Status() != enums.VerificationStatusVerified {
		t.Fatalf("expected verified, got %s %v", v.Status(), v.Verified)
	}
	if v.RejectionReason != nil || v.RejectedAt != nil {
		t.Fatalf("expected rejection cleared, got %v %v", v.RejectionReason, v.RejectedAt)
	}
}

func TestApplyChangeRejectRequiresReason(t *testing.T) {
	v := models.NewVendor(uuid.New())
	err := ApplyChange(v, Change{Event: EventReject, Reason: "   "})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if v.VerificationStatus != nil {
		t.Fatalf("vendor should be untouched on failure")
	}
}

func TestApplyChangeClearFromPendingLeavesVendorUntouched(t *testing.T) {
	v := models.NewVendor(uuid.New())
	if err := ApplyChange(v, Change{Event: EventSubmit}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := ApplyChange(v, Change{Event: EventClear}); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if v.Status() != enums.VerificationStatusPending {
		t.Fatalf("expected pending to remain, got %s", v.Status())
	}
}
