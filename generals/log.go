package generals

import "fmt"

// MessageLog is a lieutenant's append-only record of every value it received,
// keyed by relay path. Each lieutenant exclusively owns its log; only its own
// decision evaluation ever reads it.
type MessageLog struct {
	byRound map[int][]Message
	values  map[string]Order
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{
		byRound: make(map[int][]Message),
		values:  make(map[string]Order),
	}
}

// Record appends a delivered message. Receiving two messages along the same
// relay path means the relay construction is broken, so that is reported as
// an error rather than silently overwritten.
func (l *MessageLog) Record(m Message) error {
	key := m.Path.Key()
	if _, dup := l.values[key]; dup {
		return fmt.Errorf("duplicate relay path %s", m.Path)
	}
	l.values[key] = m.Value
	r := m.Round()
	l.byRound[r] = append(l.byRound[r], m)
	return nil
}

// Value returns the order received along path p, if any.
func (l *MessageLog) Value(p Path) (Order, bool) {
	v, ok := l.values[p.Key()]
	return v, ok
}

// Round returns the messages received in relay round r, in delivery order.
func (l *MessageLog) Round(r int) []Message {
	return l.byRound[r]
}

// Len is the total number of recorded messages.
func (l *MessageLog) Len() int {
	return len(l.values)
}
