package rows

// State is the position of a row in the ingestion state machine.
type State int

// Row states. Every processed row moves Pending → Resolving → (Found | Creating) → Done.
const (
	Pending State = iota
	Resolving
	Found
	Creating
	Done
)

var stateNames = [...]string{"pending", "resolving", "found", "creating", "done"}

func (s State) String() string {
	if s < Pending || s > Done {
		return "unknown"
	}
	return stateNames[s]
}

// next lists the legal successors of each state.
var next = map[State][]State{
	Pending:   {Resolving, Done},
	Resolving: {Found, Creating, Done},
	Found:     {Done},
	Creating:  {Done},
}

func canMove(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}
