package generals

import "testing"

func TestPathExtendDoesNotAlias(t *testing.T) {
	p := Path{CommanderID, 1}
	q := p.Extend(2)
	r := p.Extend(3)
	if q.Key() != "0:1:2" || r.Key() != "0:1:3" {
		t.Fatalf("extensions interfered: %s and %s", q, r)
	}
	if p.Key() != "0:1" {
		t.Fatalf("Extend mutated the receiver: %s", p)
	}
}

func TestPathValidate(t *testing.T) {
	cases := []struct {
		name     string
		path     Path
		receiver ID
		wantErr  bool
	}{
		{"direct from commander", Path{0}, 1, false},
		{"relayed", Path{0, 2}, 1, false},
		{"empty", Path{}, 1, true},
		{"not from commander", Path{2, 1}, 3, true},
		{"repeated participant", Path{0, 2, 2}, 1, true},
		{"contains receiver", Path{0, 1}, 1, true},
	}
	for _, tc := range cases {
		err := tc.path.Validate(tc.receiver)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: Validate(%s, %s) = %v, wantErr=%v",
				tc.name, tc.path, tc.receiver, err, tc.wantErr)
		}
	}
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder(" attack ")
	if err != nil || o != OrderAttack {
		t.Fatalf("expected %s, got %s (%v)", OrderAttack, o, err)
	}
	if _, err := ParseOrder("charge"); err == nil {
		t.Fatalf("expected an error for a value outside the domain")
	}
}

func TestIDString(t *testing.T) {
	if CommanderID.String() != "Commander" {
		t.Fatalf("unexpected commander name %q", CommanderID.String())
	}
	if ID(2).String() != "Lieutenant-2" {
		t.Fatalf("unexpected lieutenant name %q", ID(2).String())
	}
}

func TestMessageLogRejectsDuplicatePath(t *testing.T) {
	log := NewMessageLog()
	msg := Message{Path: Path{0, 2}, Value: OrderAttack}
	if err := log.Record(msg); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := log.Record(msg); err == nil {
		t.Fatalf("duplicate relay path must be rejected")
	}
	if v, ok := log.Value(Path{0, 2}); !ok || v != OrderAttack {
		t.Fatalf("recorded value lost: %s %v", v, ok)
	}
}
