package dashboard

// Action is one kind of monitored backend call
type Action int

const (
	ActionSearch Action = iota
	ActionAnalyze
	ActionMatch
	ActionCoverLetter
	ActionOptimize

	actionCount
)

var actionNames = [actionCount]string{"search", "analyze", "match", "coverLetter", "optimize"}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ActionState holds one in-flight flag per action kind, guarded by the owning Dashboard
type ActionState struct {
	busy [actionCount]bool
}

// Begin sets the flag for a, reporting false if a is already in flight
func (s *ActionState) Begin(a Action) bool {
	if s.busy[a] {
		return false
	}
	s.busy[a] = true
	return true
}

// End clears the flag for a unconditionally
func (s *ActionState) End(a Action) {
	s.busy[a] = false
}

// IsBusy reports whether a is in flight
func (s *ActionState) IsBusy(a Action) bool {
	return s.busy[a]
}

// IsAnyBusy reports whether any action is in flight
func (s *ActionState) IsAnyBusy() bool {
	for _, b := range s.busy {
		if b {
			return true
		}
	}
	return false
}
