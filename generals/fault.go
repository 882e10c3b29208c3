package generals

import (
	"fmt"
	"math/rand"
	"sync"
)

// Strategy decides the value a participant actually puts on the wire.
// A loyal participant's strategy is the identity; a traitor's may substitute
// anything, differ per recipient and differ per round. Within-round sends may
// run concurrently, so a stateful strategy must guard its own state.
type Strategy interface {
	// ValueToSend returns the value to send to recipient in the given round
	// when the protocol asks for truth.
	ValueToSend(recipient ID, round int, truth Order) Order
}

// Loyal relays exactly what the protocol specifies.
type Loyal struct{}

func (Loyal) ValueToSend(_ ID, _ int, truth Order) Order {
	return truth
}

// ConsistentLiar always sends the same fixed substitute, to everyone, in
// every round.
type ConsistentLiar struct {
	Substitute Order
}

func (l ConsistentLiar) ValueToSend(ID, int, Order) Order {
	return l.Substitute
}

// InconsistentLiar tries to split its peers' views: even-numbered recipients
// get the opposite of the truth, odd-numbered ones the truth. Deterministic,
// so scenario outcomes are reproducible.
type InconsistentLiar struct{}

func (InconsistentLiar) ValueToSend(recipient ID, _ int, truth Order) Order {
	if int(recipient)%2 == 0 {
		return truth.Opposite()
	}
	return truth
}

// RandomLiar sends an arbitrary value per recipient and round, drawn from a
// seeded source.
type RandomLiar struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomLiar returns a RandomLiar backed by the given seed.
func NewRandomLiar(seed int64) *RandomLiar {
	return &RandomLiar{rng: rand.New(rand.NewSource(seed))}
}

func (l *RandomLiar) ValueToSend(_ ID, _ int, truth Order) Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rng.Intn(2) == 0 {
		return truth
	}
	return truth.Opposite()
}

// FaultModel fixes, for one run, which participants are traitors and how
// each traitor lies. It is immutable once the run starts and shared read-only
// by every participant, so the simulation has no ambient global state.
type FaultModel struct {
	n         int
	strategies map[ID]Strategy
}

// NewFaultModel returns a model for n participants, all loyal.
func NewFaultModel(n int) *FaultModel {
	return &FaultModel{n: n, strategies: make(map[ID]Strategy)}
}

// SetTraitor marks id as a traitor using the given lying strategy.
func (fm *FaultModel) SetTraitor(id ID, s Strategy) *FaultModel {
	fm.strategies[id] = s
	return fm
}

// IsLoyal reports whether id follows the protocol faithfully.
func (fm *FaultModel) IsLoyal(id ID) bool {
	_, traitor := fm.strategies[id]
	return !traitor
}

// ValueToSend mediates every send in the simulation. The call path is
// uniform: loyal senders go through the identity strategy.
func (fm *FaultModel) ValueToSend(sender, recipient ID, round int, truth Order) Order {
	s, ok := fm.strategies[sender]
	if !ok {
		return truth
	}
	return s.ValueToSend(recipient, round, truth)
}

// Traitors returns the number of traitorous participants.
func (fm *FaultModel) Traitors() int {
	return len(fm.strategies)
}

// Loyalty returns a copy of the per-participant loyalty assignment, for the
// run result.
func (fm *FaultModel) Loyalty() map[ID]bool {
	m := make(map[ID]bool, fm.n)
	for i := 0; i < fm.n; i++ {
		m[ID(i)] = fm.IsLoyal(ID(i))
	}
	return m
}

func (fm *FaultModel) validate(n int) error {
	if fm.n != n {
		return fmt.Errorf("fault model sized for %d participants, run has %d", fm.n, n)
	}
	for id := range fm.strategies {
		if int(id) < 0 || int(id) >= n {
			return fmt.Errorf("traitor %d is not a participant", int(id))
		}
	}
	return nil
}
