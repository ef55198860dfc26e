package journey

import (
	"fmt"

	"origination-engine/internal/pkg/apperrors"
)

// State is the journey position within a session. Exactly one state is active
// per session.
type State string

const (
	StateStart                      State = "START"
	StateSelectingCustomer          State = "SELECTING_CUSTOMER"
	StateCollectingLoanTerms        State = "COLLECTING_LOAN_TERMS"
	StateEvaluating                 State = "EVALUATING"
	StateAwaitingIncomeVerification State = "AWAITING_INCOME_VERIFICATION"
	StateGeneratingSanction         State = "GENERATING_SANCTION"
	StateRejected                   State = "REJECTED"
	StateCompleted                  State = "COMPLETED"
)

type Event string

const (
	EventBegin               Event = "BEGIN"
	EventSelectCustomer      Event = "SELECT_CUSTOMER"
	EventSubmitTerms         Event = "SUBMIT_TERMS"
	EventApprove             Event = "APPROVE"
	EventRequireVerification Event = "REQUIRE_VERIFICATION"
	EventReject              Event = "REJECT"
	EventVerificationPassed  Event = "VERIFICATION_PASSED"
	EventVerificationFailed  Event = "VERIFICATION_FAILED"
	EventReset               Event = "RESET"
)

// transitions is the full legal transition table. Reset is handled separately
// in Advance because it is legal from every state.
var transitions = map[State]map[Event]State{
	StateStart: {
		EventBegin: StateSelectingCustomer,
	},
	StateSelectingCustomer: {
		EventSelectCustomer: StateCollectingLoanTerms,
	},
	StateCollectingLoanTerms: {
		EventSubmitTerms: StateEvaluating,
	},
	StateEvaluating: {
		EventApprove:             StateCompleted,
		EventRequireVerification: StateAwaitingIncomeVerification,
		EventReject:              StateRejected,
	},
	StateAwaitingIncomeVerification: {
		EventVerificationPassed: StateCompleted,
		EventVerificationFailed: StateRejected,
	},
}

// Advance returns the state reached by applying event to state, or an
// ErrIllegalTransition when the state does not expose that event. It is pure;
// session bookkeeping belongs to the caller.
func Advance(state State, event Event) (State, error) {
	if event == EventReset {
		return StateStart, nil
	}
	if next, ok := transitions[state][event]; ok {
		return next, nil
	}
	return state, fmt.Errorf("%w: event %s not legal in state %s", apperrors.ErrIllegalTransition, event, state)
}

// Terminal reports whether only the reset transition remains legal.
func (s State) Terminal() bool {
	return s == StateRejected || s == StateCompleted
}
