package domain

// checklistTransitions encodes the single-step lifecycle of a checklist:
//
//	PENDING → IN_PROGRESS → COMPLETED → APPROVED
//	                ↑            │
//	                └─ REJECTED ←┘
//
// APPROVED is terminal. REJECTED reopens back to IN_PROGRESS.
var checklistTransitions = map[ChecklistStatus]map[ChecklistStatus]bool{
	ChecklistStatusPending: {
		ChecklistStatusInProgress: true,
	},
	ChecklistStatusInProgress: {
		ChecklistStatusCompleted: true,
	},
	ChecklistStatusCompleted: {
		ChecklistStatusApproved: true,
		ChecklistStatusRejected: true,
	},
	ChecklistStatusRejected: {
		ChecklistStatusInProgress: true,
	},
}

// ValidateChecklistTransition reports whether a checklist may move from
// one status to another in a single step. It returns a TransitionError
// for a known-but-unreachable target and a ValidationError for an
// unknown status value.
func ValidateChecklistTransition(from, to ChecklistStatus) error {
	if !from.IsValid() {
		return NewValidationError("status", "unknown status "+from.String())
	}
	if !to.IsValid() {
		return NewValidationError("status", "unknown status "+to.String())
	}
	if !checklistTransitions[from][to] {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminalStatus reports whether no transition leaves the given status.
func IsTerminalStatus(s ChecklistStatus) bool {
	return len(checklistTransitions[s]) == 0
}
