package generals

// Receiver is implemented by participants that accept delivered messages.
// The transport invokes Deliver once per buffered message when a round ends.
type Receiver interface {
	Deliver(msg Message)
}

// Transport abstracts round-synchronous point-to-point delivery between
// participants. Implementations guarantee that every message sent during a
// round is delivered before EndRound returns, that nothing is lost, and that
// messages from the same sender arrive in the order they were sent. Delivery
// order across different senders is unspecified and must not be relied upon.
//
// Byzantine behaviour lives in the fault model, never here: the transport is
// the reliable synchronous network the oral-messages formulation assumes.
type Transport interface {
	// Attach registers the receiver that owns id. Must be called for every
	// participant before the first Send.
	Attach(id ID, r Receiver)

	// Send queues msg for delivery to to at the end of the current round.
	Send(from, to ID, msg Message) error

	// Broadcast is sugar for Send to each recipient with the same message.
	// Only loyal participants can use it; traitors need per-recipient values.
	Broadcast(from ID, recipients []ID, msg Message) error

	// EndRound delivers everything queued in the current round and advances
	// the round counter. No message crosses a round boundary.
	EndRound() error

	// Close releases any resources held by the transport.
	Close() error
}
