package generals

import (
	"errors"
	"fmt"
)

// ErrConfig marks configuration errors. They are fatal and reported before
// any message is sent: running below the n >= 3f+1 bound silently would be a
// correctness hazard, not a robustness concern.
var ErrConfig = errors.New("invalid run configuration")

// RunConfig is the immutable description of one simulation run. It is
// validated once and then shared read-only with every participant.
type RunConfig struct {
	// N is the total number of participants, commander included.
	N int
	// F is the tolerated number of traitors; it is also the number of relay
	// rounds m the protocol performs.
	F int
	// Order is the commander's true order.
	Order Order
	// Faults assigns loyalty and lying strategies. A nil value means every
	// participant is loyal.
	Faults *FaultModel
	// AllowUnsafe skips the n >= 3f+1 and traitor-count checks, so tests can
	// demonstrate the algorithm's known failure below the bound. Never set
	// it outside experiments.
	AllowUnsafe bool
}

// Validate checks the configuration against the protocol's correctness
// precondition. All failures wrap ErrConfig.
func (c RunConfig) Validate() error {
	if c.N < 2 {
		return fmt.Errorf("%w: need a commander and at least one lieutenant, got n=%d", ErrConfig, c.N)
	}
	if c.F < 0 {
		return fmt.Errorf("%w: negative fault bound f=%d", ErrConfig, c.F)
	}
	if !c.Order.Valid() {
		return fmt.Errorf("%w: order %q is not in the value domain", ErrConfig, string(c.Order))
	}
	if c.Faults != nil {
		if err := c.Faults.validate(c.N); err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	if c.AllowUnsafe {
		return nil
	}
	if c.N < 3*c.F+1 {
		return fmt.Errorf("%w: n=%d cannot tolerate f=%d traitors, need n >= 3f+1 = %d",
			ErrConfig, c.N, c.F, 3*c.F+1)
	}
	if c.Faults != nil && c.Faults.Traitors() > c.F {
		return fmt.Errorf("%w: %d traitors assigned but only f=%d tolerated",
			ErrConfig, c.Faults.Traitors(), c.F)
	}
	return nil
}

func (c RunConfig) faults() *FaultModel {
	if c.Faults == nil {
		return NewFaultModel(c.N)
	}
	return c.Faults
}

// Lieutenants returns the identities of all non-commander participants.
func (c RunConfig) Lieutenants() []ID {
	ids := make([]ID, 0, c.N-1)
	for i := 1; i < c.N; i++ {
		ids = append(ids, ID(i))
	}
	return ids
}
