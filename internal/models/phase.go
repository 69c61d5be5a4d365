package models

// PhaseKind is the presentation state of the composer.
type PhaseKind int

const (
	Idle PhaseKind = iota
	Busy
	Failed
)

func (k PhaseKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Phase is derived from the pending request on every update. Message is only
// set when Kind is Failed.
type Phase struct {
	Kind    PhaseKind
	Message string
}

func IdlePhase() Phase { return Phase{Kind: Idle} }

func BusyPhase() Phase { return Phase{Kind: Busy} }

func ErrorPhase(message string) Phase { return Phase{Kind: Failed, Message: message} }

// Selection spans text in the prompt, counted in characters.
type Selection struct {
	Start  int
	Length int
}

// End is the character offset just past the selection.
func (s Selection) End() int {
	return s.Start + s.Length
}
