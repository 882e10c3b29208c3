// Package evidence turns the core's audit event stream into the
// human-readable trace file the simulation leaves behind. The trace is
// sufficient to audit both agreement and the per-round relay history.
package evidence

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/luca-patrignani/byzantine-generals/generals"
)

const timeLayout = "02/01/2006 15:04:05"

// Writer appends one line per audit event to an io.Writer. It implements
// generals.EventSink and is safe for the concurrent emits of within-round
// sends.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewWriter wraps out. now defaults to time.Now and exists for tests.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out, now: time.Now}
}

// OpenFile opens (or creates) path in append mode and returns a Writer over
// it together with the file for closing.
func OpenFile(path string) (*Writer, *os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open evidence file: %w", err)
	}
	return NewWriter(f), f, nil
}

// Emit implements generals.EventSink.
func (w *Writer) Emit(e generals.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	stamp := w.now().Format(timeLayout)
	switch e.Kind {
	case generals.EventSend:
		fmt.Fprintf(w.out, "%s [round %d] %s -> %s via %s: %s\n",
			stamp, e.Round, e.From, e.To, e.Path, e.Value)
	case generals.EventTie:
		fmt.Fprintf(w.out, "%s [round %d] %s: no strict majority for path %s (%s), defaulting to %s\n",
			stamp, e.Round, e.Participant, e.Path, formatTally(e.Votes), e.Value)
	case generals.EventDecision:
		fmt.Fprintf(w.out, "%s %s final decision: %s\n",
			stamp, e.Participant, e.Value)
	}
}

// WriteResult appends the run-level summary block: every decision, the vote
// tally, and whether the lieutenants converged.
func (w *Writer) WriteResult(res *generals.RunResult) {
	s := res.Summary()
	w.mu.Lock()
	defer w.mu.Unlock()
	stamp := w.now().Format(timeLayout)
	fmt.Fprintf(w.out, "%s === BYZANTINE AGREEMENT FINAL RESULT ===\n", stamp)
	for _, id := range sortedIDs(res.Decisions) {
		loyalty := "loyal"
		if !res.Loyalty[id] {
			loyalty = "traitor"
		}
		fmt.Fprintf(w.out, "%s   %s (%s): %s\n", stamp, id, loyalty, res.Decisions[id])
	}
	fmt.Fprintf(w.out, "%s Vote count: %s\n", stamp, formatTally(s.Votes))
	fmt.Fprintf(w.out, "%s Majority decision: %s (%d/%d lieutenants)\n",
		stamp, s.Plurality, s.Count, len(res.Decisions))
	consensus := "NO"
	if s.Consensus {
		consensus = "YES"
	}
	fmt.Fprintf(w.out, "%s Consensus achieved: %s\n", stamp, consensus)
	fmt.Fprintf(w.out, "%s =========================================\n", stamp)
}

func formatTally(t generals.Tally) string {
	orders := make([]string, 0, len(t))
	for o := range t {
		orders = append(orders, string(o))
	}
	sort.Strings(orders)
	s := ""
	for i, o := range orders {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%d", o, t[generals.Order(o)])
	}
	return s
}

func sortedIDs(m map[generals.ID]generals.Order) []generals.ID {
	ids := make([]generals.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
