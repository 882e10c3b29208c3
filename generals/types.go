package generals

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a participant. The commander is always CommanderID and the
// lieutenants are 1..n-1.
type ID int

// CommanderID is the identity of the distinguished participant that
// originates the order.
const CommanderID ID = 0

func (id ID) String() string {
	if id == CommanderID {
		return "Commander"
	}
	return fmt.Sprintf("Lieutenant-%d", int(id))
}

// Order is the value being agreed upon, a member of a closed two-value
// enumeration.
type Order string

const (
	OrderAttack  Order = "ATTACK"
	OrderRetreat Order = "RETREAT"
)

// DefaultOrder is the deterministic tie-break value used whenever a
// lieutenant finds no strict majority, and the value assumed for a message
// that was never received. Lamport's formulation fixes it to RETREAT.
const DefaultOrder = OrderRetreat

// Valid reports whether o is a member of the order enumeration.
func (o Order) Valid() bool {
	return o == OrderAttack || o == OrderRetreat
}

// Opposite returns the other member of the two-value domain.
func (o Order) Opposite() Order {
	if o == OrderAttack {
		return OrderRetreat
	}
	return OrderAttack
}

// ParseOrder converts user input such as "attack" into an Order.
func ParseOrder(s string) (Order, error) {
	o := Order(strings.ToUpper(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("unknown order %q, want %s or %s", s, OrderAttack, OrderRetreat)
	}
	return o, nil
}

// Path is the ordered sequence of participant identities a message has been
// relayed through. Path[0] is always the commander; a participant never
// appears twice.
type Path []ID

// Contains reports whether id is already on the path.
func (p Path) Contains(id ID) bool {
	for _, q := range p {
		if q == id {
			return true
		}
	}
	return false
}

// Extend returns a copy of p with id appended. The receiver is not modified.
func (p Path) Extend(id ID) Path {
	q := make(Path, len(p), len(p)+1)
	copy(q, p)
	return append(q, id)
}

// Key returns a stable map key for the path.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ":")
}

// Round is the relay round the path belongs to: 0 for direct-from-commander.
func (p Path) Round() int {
	return len(p) - 1
}

func (p Path) String() string {
	return p.Key()
}

// Validate checks the structural invariants of a relay path as observed by
// the receiving participant: it starts at the commander, repeats nobody, and
// does not already include the receiver. A violation is a defect in the relay
// construction, never a consequence of traitorous input.
func (p Path) Validate(receiver ID) error {
	if len(p) == 0 {
		return fmt.Errorf("empty relay path")
	}
	if p[0] != CommanderID {
		return fmt.Errorf("relay path %s does not start at the commander", p)
	}
	seen := make(map[ID]bool, len(p))
	for _, id := range p {
		if seen[id] {
			return fmt.Errorf("relay path %s repeats participant %s", p, id)
		}
		seen[id] = true
	}
	if seen[receiver] {
		return fmt.Errorf("relay path %s already contains receiver %s", p, receiver)
	}
	return nil
}

// Message is a value tagged with the relay path it travelled.
type Message struct {
	Path  Path
	Value Order
}

// Sender is the participant the message arrived from, the last hop on the
// path.
func (m Message) Sender() ID {
	return m.Path[len(m.Path)-1]
}

// Round is the relay round the message belongs to.
func (m Message) Round() int {
	return m.Path.Round()
}
