package domain

// allowedTransitions lists the manual status moves an operator may make.
// Promotion NEW -> HOT is also performed automatically by the funnel analyzer.
var allowedTransitions = map[Status]map[Status]bool{
	StatusNew: {
		StatusHot:       true,
		StatusContacted: true,
		StatusCold:      true,
	},
	StatusHot: {
		StatusContacted: true,
		StatusCold:      true,
	},
	StatusContacted: {
		StatusConverted: true,
		StatusCold:      true,
	},
	StatusCold: {
		StatusContacted: true,
	},
}

// IsTerminal returns true for statuses that leave the funnel.
func IsTerminal(status Status) bool {
	return status == StatusConverted
}

// CanTransition reports whether a lead may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return IsKnownStatus(from)
	}
	return allowedTransitions[from][to]
}

// ValidateTransition returns a non-empty reason when the move is not allowed.
func ValidateTransition(from, to Status) string {
	if !IsKnownStatus(to) {
		return "unknown status " + string(to)
	}
	if !IsKnownStatus(from) {
		return "unknown current status " + string(from)
	}
	if IsTerminal(from) && from != to {
		return "converted leads cannot change status"
	}
	if !CanTransition(from, to) {
		return "cannot move lead from " + string(from) + " to " + string(to)
	}
	return ""
}
