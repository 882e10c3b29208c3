package generals

// EventKind discriminates the entries of the audit stream.
type EventKind int

const (
	// EventSend records one transport delivery: round, sender, recipient,
	// relay path and the value actually sent (post fault mediation).
	EventSend EventKind = iota
	// EventTie records a majority vote that found no strict winner and fell
	// back to DefaultOrder. Ties are expected behaviour, not failures.
	EventTie
	// EventDecision records a lieutenant's final decision.
	EventDecision
)

func (k EventKind) String() string {
	switch k {
	case EventSend:
		return "send"
	case EventTie:
		return "tie"
	case EventDecision:
		return "decision"
	}
	return "unknown"
}

// Event is one entry of the enumerable audit stream the core exposes to
// external evidence writers. Fields are populated per kind: send events carry
// From/To/Path/Value, tie events Participant/Path/Votes/Value (the default
// used), decision events Participant/Value.
type Event struct {
	Kind        EventKind
	Round       int
	From        ID
	To          ID
	Participant ID
	Path        Path
	Value       Order
	Votes       Tally
}

// EventSink consumes audit events. Implementations must tolerate concurrent
// Emit calls, since within-round sends may run in parallel.
type EventSink interface {
	Emit(e Event)
}

type nopSink struct{}

func (nopSink) Emit(Event) {}

// NopSink discards every event.
func NopSink() EventSink {
	return nopSink{}
}

type multiSink []EventSink

func (m multiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Sinks fans events out to every given sink in order.
func Sinks(sinks ...EventSink) EventSink {
	return multiSink(sinks)
}
