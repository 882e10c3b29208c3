// Package transport provides the round-synchronous message transports the
// simulation runs over: an in-memory one used by default, and an HTTP
// loopback one with a server per participant. Both model the reliable
// synchronous network the oral-messages formulation assumes; byzantine
// behaviour never lives here.
package transport

import (
	"fmt"
	"sync"

	"github.com/luca-patrignani/byzantine-generals/generals"
)

// Memory buffers every message sent during a round and delivers all of them,
// per recipient, when EndRound is called. Messages from the same sender keep
// their send order; the order across senders can be permuted through
// WithDeliveryOrder to exercise order-independence.
type Memory struct {
	mu        sync.Mutex
	receivers map[generals.ID]generals.Receiver
	queues    map[generals.ID][]generals.Message
	round     int
	sink      generals.EventSink
	order     func(n int) []int
}

type memoryOption func(*Memory)

// WithEventSink emits one send event per delivered message.
func WithEventSink(sink generals.EventSink) memoryOption {
	return func(m *Memory) {
		m.sink = sink
	}
}

// WithDeliveryOrder permutes the delivery order of each recipient's buffered
// messages at the end of every round. order receives the buffer length and
// returns a permutation of 0..n-1. Per-sender relative order is restored
// after the permutation, so the transport contract still holds.
func WithDeliveryOrder(order func(n int) []int) memoryOption {
	return func(m *Memory) {
		m.order = order
	}
}

// NewMemory returns an empty in-memory transport.
func NewMemory(opts ...memoryOption) *Memory {
	m := &Memory{
		receivers: make(map[generals.ID]generals.Receiver),
		queues:    make(map[generals.ID][]generals.Message),
		sink:      generals.NopSink(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach registers the receiver owning id.
func (m *Memory) Attach(id generals.ID, r generals.Receiver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivers[id] = r
}

// Send queues msg for to. Safe for concurrent use by within-round senders.
func (m *Memory) Send(from, to generals.ID, msg generals.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receivers[to]; !ok {
		return fmt.Errorf("no receiver attached for %s", to)
	}
	m.queues[to] = append(m.queues[to], msg)
	m.sink.Emit(generals.Event{
		Kind:  generals.EventSend,
		Round: m.round,
		From:  from,
		To:    to,
		Path:  msg.Path,
		Value: msg.Value,
	})
	return nil
}

// Broadcast sends the same message to every recipient.
func (m *Memory) Broadcast(from generals.ID, recipients []generals.ID, msg generals.Message) error {
	for _, to := range recipients {
		if err := m.Send(from, to, msg); err != nil {
			return err
		}
	}
	return nil
}

// EndRound delivers every buffered message and advances the round counter.
// Nothing sent in a round survives past its EndRound.
func (m *Memory) EndRound() error {
	m.mu.Lock()
	pending := m.queues
	m.queues = make(map[generals.ID][]generals.Message)
	receivers := make(map[generals.ID]generals.Receiver, len(m.receivers))
	for id, r := range m.receivers {
		receivers[id] = r
	}
	m.round++
	m.mu.Unlock()

	for to, msgs := range pending {
		if m.order != nil {
			msgs = permute(msgs, m.order(len(msgs)))
		}
		r := receivers[to]
		for _, msg := range msgs {
			r.Deliver(msg)
		}
	}
	return nil
}

// Close implements generals.Transport; the in-memory transport holds nothing.
func (m *Memory) Close() error {
	return nil
}

// permute reorders msgs by the given permutation, then restores each
// sender's internal order so the per-sender FIFO guarantee is kept.
func permute(msgs []generals.Message, perm []int) []generals.Message {
	if len(perm) != len(msgs) {
		return msgs
	}
	shuffled := make([]generals.Message, 0, len(msgs))
	for _, i := range perm {
		if i < 0 || i >= len(msgs) {
			return msgs
		}
		shuffled = append(shuffled, msgs[i])
	}
	// Stable per-sender fixup: pull each sender's messages back into their
	// original relative order.
	bySender := make(map[generals.ID][]generals.Message)
	for _, msg := range msgs {
		bySender[msg.Sender()] = append(bySender[msg.Sender()], msg)
	}
	taken := make(map[generals.ID]int)
	out := make([]generals.Message, 0, len(msgs))
	for _, msg := range shuffled {
		s := msg.Sender()
		out = append(out, bySender[s][taken[s]])
		taken[s]++
	}
	return out
}
