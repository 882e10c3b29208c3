package generals

import "testing"

func TestLoyalStrategyIsIdentity(t *testing.T) {
	for _, o := range []Order{OrderAttack, OrderRetreat} {
		if got := (Loyal{}).ValueToSend(3, 1, o); got != o {
			t.Fatalf("loyal strategy altered %s into %s", o, got)
		}
	}
}

func TestConsistentLiar(t *testing.T) {
	liar := ConsistentLiar{Substitute: OrderRetreat}
	for to := ID(1); to < 5; to++ {
		if got := liar.ValueToSend(to, 2, OrderAttack); got != OrderRetreat {
			t.Fatalf("consistent liar sent %s to %s", got, to)
		}
	}
}

// The inconsistent liar must split its peers' views within a single round:
// that is the adversary the protocol exists to tolerate.
func TestInconsistentLiarSplitsRecipients(t *testing.T) {
	liar := InconsistentLiar{}
	even := liar.ValueToSend(2, 0, OrderAttack)
	odd := liar.ValueToSend(1, 0, OrderAttack)
	if even == odd {
		t.Fatalf("inconsistent liar sent %s to everyone", even)
	}
	if again := liar.ValueToSend(2, 0, OrderAttack); again != even {
		t.Fatalf("strategy is not deterministic per recipient: %s then %s", even, again)
	}
}

func TestRandomLiarReplaysPerSeed(t *testing.T) {
	a := NewRandomLiar(42)
	b := NewRandomLiar(42)
	for i := 0; i < 20; i++ {
		va := a.ValueToSend(ID(i%4), i, OrderAttack)
		vb := b.ValueToSend(ID(i%4), i, OrderAttack)
		if va != vb {
			t.Fatalf("same seed diverged at call %d: %s vs %s", i, va, vb)
		}
	}
}

func TestFaultModelMediation(t *testing.T) {
	fm := NewFaultModel(4).SetTraitor(3, ConsistentLiar{Substitute: OrderRetreat})

	if !fm.IsLoyal(1) || fm.IsLoyal(3) {
		t.Fatalf("loyalty assignment wrong: %v", fm.Loyalty())
	}
	if got := fm.ValueToSend(1, 2, 1, OrderAttack); got != OrderAttack {
		t.Fatalf("loyal sender mediated to %s", got)
	}
	if got := fm.ValueToSend(3, 2, 1, OrderAttack); got != OrderRetreat {
		t.Fatalf("traitor mediated to %s", got)
	}
	if fm.Traitors() != 1 {
		t.Fatalf("expected 1 traitor, got %d", fm.Traitors())
	}
}
