package generals

import "fmt"

// Lieutenant is a participant that receives orders, relays what it received
// for the remaining rounds, and finally decides by recursive majority.
type Lieutenant struct {
	id     ID
	n      int
	rounds int
	faults *FaultModel
	log    *MessageLog
	defect error
}

// NewLieutenant constructs lieutenant id for a run of n participants and
// rounds relay rounds.
func NewLieutenant(id ID, n, rounds int, faults *FaultModel) *Lieutenant {
	return &Lieutenant{
		id:     id,
		n:      n,
		rounds: rounds,
		faults: faults,
		log:    NewMessageLog(),
	}
}

// ID returns the lieutenant's identity.
func (l *Lieutenant) ID() ID {
	return l.id
}

// Log exposes the lieutenant's message log for inspection by tests and
// evidence writers.
func (l *Lieutenant) Log() *MessageLog {
	return l.log
}

// Deliver implements Receiver. A malformed relay path or a duplicate path is
// an internal defect of the relay construction; it is latched and surfaced
// by the runner after the round, since traitors can lie about values but can
// never produce a broken path through a correct transport.
func (l *Lieutenant) Deliver(msg Message) {
	if err := msg.Path.Validate(l.id); err != nil {
		l.latch(err)
		return
	}
	if err := l.log.Record(msg); err != nil {
		l.latch(err)
	}
}

func (l *Lieutenant) latch(err error) {
	if l.defect == nil {
		l.defect = fmt.Errorf("%s: %w", l.id, err)
	}
}

// Defect returns the first relay invariant violation observed, if any.
func (l *Lieutenant) Defect() error {
	return l.defect
}

// Relay performs the lieutenant's sends for the given round (1..m): every
// message received in the previous round is forwarded, through the fault
// model, to every participant not already on its relay path. Each recipient
// treats the extended path as a fresh sub-problem with one round fewer.
func (l *Lieutenant) Relay(round int, tr Transport) error {
	if round < 1 || round > l.rounds {
		return fmt.Errorf("relay round %d outside 1..%d", round, l.rounds)
	}
	for _, msg := range l.log.Round(round - 1) {
		next := msg.Path.Extend(l.id)
		for q := 0; q < l.n; q++ {
			to := ID(q)
			if to == l.id || msg.Path.Contains(to) {
				continue
			}
			out := Message{
				Path:  next,
				Value: l.faults.ValueToSend(l.id, to, round, msg.Value),
			}
			if err := tr.Send(l.id, to, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decide evaluates the collected message tree and returns the lieutenant's
// final decision. The tree is walked bottom-up with explicit per-level work
// lists rather than language recursion: paths of maximal length resolve to
// the value received along them, and every shorter path resolves to the
// strict majority of its own direct value plus the resolved values of all of
// its extensions. Ties fall back to DefaultOrder and are reported to sink.
// A message that never arrived counts as DefaultOrder, per the oral-messages
// assumption that absence is detectable.
func (l *Lieutenant) Decide(sink EventSink) Order {
	if sink == nil {
		sink = NopSink()
	}
	resolved := make(map[string]Order, l.log.Len())

	for length := l.rounds + 1; length >= 1; length-- {
		for _, msg := range l.log.Round(length - 1) {
			p := msg.Path
			if length == l.rounds+1 {
				resolved[p.Key()] = msg.Value
				continue
			}
			votes := NewTally()
			votes.Add(msg.Value)
			for q := 0; q < l.n; q++ {
				to := ID(q)
				if to == l.id || p.Contains(to) {
					continue
				}
				child := p.Extend(to)
				v, ok := resolved[child.Key()]
				if !ok {
					v = DefaultOrder
				}
				votes.Add(v)
			}
			winner, strict := votes.Majority()
			if !strict {
				sink.Emit(Event{
					Kind:        EventTie,
					Round:       p.Round(),
					Participant: l.id,
					Path:        p,
					Value:       winner,
					Votes:       votes.Clone(),
				})
			}
			resolved[p.Key()] = winner
		}
	}

	decision, ok := resolved[Path{CommanderID}.Key()]
	if !ok {
		// The commander never spoke to us at all.
		decision = DefaultOrder
	}
	return decision
}
