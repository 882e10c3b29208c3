package generals

import (
	"errors"
	"fmt"
	"sync"
)

// Runner drives one simulation run to completion: it wires the participants
// to the transport, executes the m+1 synchronized rounds, and collects every
// lieutenant's decision.
type Runner struct {
	cfg    RunConfig
	tr     Transport
	sink   EventSink
	faults *FaultModel
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithEventSink routes the run's audit events (ties and decisions) to sink.
// Pass the same sink to the transport to capture send events as well.
func WithEventSink(sink EventSink) RunnerOption {
	return func(r *Runner) {
		r.sink = sink
	}
}

// NewRunner validates cfg and prepares a run over tr. Validation failures
// wrap ErrConfig and occur before any message is sent.
func NewRunner(cfg RunConfig, tr Transport, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:    cfg,
		tr:     tr,
		sink:   NopSink(),
		faults: cfg.faults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes the protocol and returns the collected decisions. The round
// structure is a hard barrier: the transport delivers everything a round sent
// before the next round starts. Within a round, each lieutenant's relays run
// in parallel; they share nothing but the transport's buffers.
func (r *Runner) Run() (*RunResult, error) {
	commander := NewCommander(r.faults)
	lieutenants := make([]*Lieutenant, 0, r.cfg.N-1)
	for _, id := range r.cfg.Lieutenants() {
		lt := NewLieutenant(id, r.cfg.N, r.cfg.F, r.faults)
		lieutenants = append(lieutenants, lt)
		r.tr.Attach(id, lt)
	}

	// Round 0: the commander fans the order out.
	if err := commander.IssueOrder(r.cfg.Order, r.cfg.Lieutenants(), r.tr); err != nil {
		return nil, fmt.Errorf("issue order: %w", err)
	}
	if err := r.tr.EndRound(); err != nil {
		return nil, fmt.Errorf("round 0: %w", err)
	}

	// Rounds 1..m: every lieutenant relays what it received last round.
	for round := 1; round <= r.cfg.F; round++ {
		var wg sync.WaitGroup
		errs := make([]error, len(lieutenants))
		for i, lt := range lieutenants {
			wg.Add(1)
			go func(i int, lt *Lieutenant) {
				defer wg.Done()
				errs[i] = lt.Relay(round, r.tr)
			}(i, lt)
		}
		wg.Wait()
		if err := errors.Join(errs...); err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		if err := r.tr.EndRound(); err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
	}

	for _, lt := range lieutenants {
		if err := lt.Defect(); err != nil {
			return nil, fmt.Errorf("relay invariant violated: %w", err)
		}
	}

	res := &RunResult{
		Order:     r.cfg.Order,
		Decisions: make(map[ID]Order, len(lieutenants)),
		Loyalty:   r.faults.Loyalty(),
	}
	for _, lt := range lieutenants {
		d := lt.Decide(r.sink)
		res.Decisions[lt.ID()] = d
		r.sink.Emit(Event{
			Kind:        EventDecision,
			Round:       r.cfg.F,
			Participant: lt.ID(),
			Value:       d,
		})
	}
	return res, nil
}
