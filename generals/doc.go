// Package generals implements the Byzantine Generals agreement simulation
// built on Lamport's Oral Messages algorithm OM(m). A distinguished commander
// issues an order to a set of lieutenants over a reliable synchronous
// transport; up to f of the n participants (possibly including the commander)
// are traitors that may lie inconsistently to different peers. Provided
// n >= 3f+1, every loyal lieutenant reaches the same final decision, and if
// the commander is loyal that decision is the commander's order.
//
// # Core Components
//
// Runner: drives a single run, round by round, and collects the decisions.
//
// Commander and Lieutenant: the participants. Lieutenants relay what they
// received for m further rounds and then decide by recursive majority.
//
// FaultModel: fixes each participant's loyalty and lying Strategy for the
// duration of a run.
//
// Transport: interface for round-synchronous message delivery. The transport
// package provides an in-memory implementation and an HTTP loopback one.
//
// EventSink: interface for the audit trail consumed by the evidence writer.
//
// # Protocol
//
// The protocol runs in m+1 synchronized rounds:
//  1. Round 0: the commander sends the (fault-mediated) order to every
//     lieutenant.
//  2. Rounds 1..m: every lieutenant relays each value it received in the
//     previous round to every participant not already on the message's relay
//     path, extending the path with its own identity.
//  3. Each lieutenant evaluates the resulting message tree bottom-up,
//     resolving every interior path by strict majority over its direct value
//     and the resolved values of its extensions. Absent a strict majority the
//     documented default order Retreat is used.
//
// No participant ever appears twice on a relay path, so the recursion depth
// and the candidate-recipient set shrink together and the protocol always
// terminates after m+1 rounds.
package generals
