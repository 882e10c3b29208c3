package transport

import (
	"testing"

	"github.com/luca-patrignani/byzantine-generals/generals"
)

type inbox struct {
	delivered []generals.Message
}

func (i *inbox) Deliver(msg generals.Message) {
	i.delivered = append(i.delivered, msg)
}

func TestMemoryDeliversAtRoundEnd(t *testing.T) {
	m := NewMemory()
	box := &inbox{}
	m.Attach(1, box)

	msg := generals.Message{Path: generals.Path{0}, Value: generals.OrderAttack}
	if err := m.Send(0, 1, msg); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(box.delivered) != 0 {
		t.Fatalf("message crossed into the round before the barrier")
	}
	if err := m.EndRound(); err != nil {
		t.Fatalf("end round failed: %v", err)
	}
	if len(box.delivered) != 1 || box.delivered[0].Value != generals.OrderAttack {
		t.Fatalf("unexpected delivery %v", box.delivered)
	}

	// The next round starts empty.
	if err := m.EndRound(); err != nil {
		t.Fatalf("empty round failed: %v", err)
	}
	if len(box.delivered) != 1 {
		t.Fatalf("stale message redelivered: %v", box.delivered)
	}
}

func TestMemoryRejectsUnattachedRecipient(t *testing.T) {
	m := NewMemory()
	err := m.Send(0, 9, generals.Message{Path: generals.Path{0}, Value: generals.OrderAttack})
	if err == nil {
		t.Fatalf("expected an error for an unattached recipient")
	}
}

func TestMemoryBroadcast(t *testing.T) {
	m := NewMemory()
	boxes := map[generals.ID]*inbox{1: {}, 2: {}, 3: {}}
	for id, box := range boxes {
		m.Attach(id, box)
	}
	msg := generals.Message{Path: generals.Path{0}, Value: generals.OrderRetreat}
	if err := m.Broadcast(0, []generals.ID{1, 2, 3}, msg); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}
	if err := m.EndRound(); err != nil {
		t.Fatalf("end round failed: %v", err)
	}
	for id, box := range boxes {
		if len(box.delivered) != 1 {
			t.Fatalf("recipient %s got %d messages", id, len(box.delivered))
		}
	}
}

// A delivery permutation may interleave senders arbitrarily but must keep
// each sender's own messages in send order.
func TestMemoryPermutationKeepsSenderOrder(t *testing.T) {
	reversed := func(n int) []int {
		perm := make([]int, n)
		for i := range perm {
			perm[i] = n - 1 - i
		}
		return perm
	}
	m := NewMemory(WithDeliveryOrder(reversed))
	box := &inbox{}
	m.Attach(5, box)

	sends := []generals.Message{
		{Path: generals.Path{0, 1}, Value: generals.OrderAttack},
		{Path: generals.Path{0, 2}, Value: generals.OrderAttack},
		{Path: generals.Path{0, 3, 1}, Value: generals.OrderRetreat},
		{Path: generals.Path{0, 3, 2}, Value: generals.OrderRetreat},
	}
	for _, msg := range sends {
		if err := m.Send(msg.Sender(), 5, msg); err != nil {
			t.Fatalf("send failed: %v", err)
		}
	}
	if err := m.EndRound(); err != nil {
		t.Fatalf("end round failed: %v", err)
	}
	if len(box.delivered) != len(sends) {
		t.Fatalf("expected %d deliveries, got %d", len(sends), len(box.delivered))
	}
	seen := make(map[generals.ID][]string)
	for _, msg := range box.delivered {
		seen[msg.Sender()] = append(seen[msg.Sender()], msg.Path.Key())
	}
	if got := seen[1]; len(got) != 2 || got[0] != "0:1" || got[1] != "0:3:1" {
		t.Fatalf("sender 1 order broken: %v", got)
	}
	if got := seen[2]; len(got) != 2 || got[0] != "0:2" || got[1] != "0:3:2" {
		t.Fatalf("sender 2 order broken: %v", got)
	}
}

func TestMemoryEmitsSendEvents(t *testing.T) {
	var events []generals.Event
	sink := sinkFunc(func(e generals.Event) { events = append(events, e) })
	m := NewMemory(WithEventSink(sink))
	m.Attach(1, &inbox{})

	msg := generals.Message{Path: generals.Path{0}, Value: generals.OrderAttack}
	if err := m.Send(0, 1, msg); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one send event, got %d", len(events))
	}
	e := events[0]
	if e.Kind != generals.EventSend || e.From != 0 || e.To != 1 || e.Round != 0 {
		t.Fatalf("unexpected event %+v", e)
	}
}

type sinkFunc func(generals.Event)

func (f sinkFunc) Emit(e generals.Event) { f(e) }
