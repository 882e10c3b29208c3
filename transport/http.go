package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luca-patrignani/byzantine-generals/generals"
)

// HTTP carries the same round contract as Memory over loopback HTTP: every
// participant gets its own listener and server, messages travel as JSON
// POSTs, and a Round header gates out anything that would cross a round
// boundary.
type HTTP struct {
	mu        sync.Mutex
	receivers map[generals.ID]generals.Receiver
	queues    map[generals.ID][]generals.Message
	servers   map[generals.ID]*http.Server
	Addresses map[generals.ID]string
	round     int
	client    *http.Client
	sink      generals.EventSink
}

type httpOption func(*HTTP)

// WithHTTPEventSink emits one send event per accepted message.
func WithHTTPEventSink(sink generals.EventSink) httpOption {
	return func(h *HTTP) {
		h.sink = sink
	}
}

// WithHTTPTimeout bounds every POST.
func WithHTTPTimeout(d time.Duration) httpOption {
	return func(h *HTTP) {
		h.client.Timeout = d
	}
}

type wireMessage struct {
	Path  []int  `json:"path"`
	Value string `json:"value"`
}

// NewHTTP starts one loopback server per participant and returns the
// transport once all of them are listening.
func NewHTTP(ids []generals.ID, opts ...httpOption) (*HTTP, error) {
	h := &HTTP{
		receivers: make(map[generals.ID]generals.Receiver),
		queues:    make(map[generals.ID][]generals.Message),
		servers:   make(map[generals.ID]*http.Server),
		Addresses: make(map[generals.ID]string),
		client:    &http.Client{Timeout: 10 * time.Second},
		sink:      generals.NopSink(),
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, id := range ids {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("listen for %s: %w", id, err)
		}
		srv := &http.Server{Handler: h.handlerFor(id)}
		h.servers[id] = srv
		h.Addresses[id] = l.Addr().String()
		go func() {
			if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				panic(err)
			}
		}()
	}
	return h, nil
}

func (h *HTTP) handlerFor(id generals.ID) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		sentRound, err := strconv.Atoi(req.Header.Get("Round"))
		if err != nil {
			rw.WriteHeader(http.StatusNotAcceptable)
			return
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			rw.WriteHeader(http.StatusInternalServerError)
			return
		}
		var wire wireMessage
		if err := json.Unmarshal(body, &wire); err != nil {
			rw.WriteHeader(http.StatusBadRequest)
			return
		}
		path := make(generals.Path, len(wire.Path))
		for i, p := range wire.Path {
			path[i] = generals.ID(p)
		}
		msg := generals.Message{Path: path, Value: generals.Order(wire.Value)}

		h.mu.Lock()
		defer h.mu.Unlock()
		if sentRound != h.round {
			// Stale or early message: the round barrier rejects it.
			rw.WriteHeader(http.StatusNotAcceptable)
			return
		}
		h.queues[id] = append(h.queues[id], msg)
		rw.WriteHeader(http.StatusAccepted)
	})
}

// Attach registers the receiver owning id.
func (h *HTTP) Attach(id generals.ID, r generals.Receiver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.receivers[id] = r
}

// Send posts msg to to's server. It returns once the recipient has accepted
// and buffered the message, so every Send completes within its round.
func (h *HTTP) Send(from, to generals.ID, msg generals.Message) error {
	h.mu.Lock()
	addr, ok := h.Addresses[to]
	round := h.round
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("no server for %s", to)
	}

	wire := wireMessage{Path: make([]int, len(msg.Path)), Value: string(msg.Value)}
	for i, p := range msg.Path {
		wire.Path[i] = int(p)
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, "http://"+addr, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Round", strconv.Itoa(round))
	req.Header.Set("Sender", strconv.Itoa(int(from)))
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s -> %s: %w", from, to, err)
	}
	if err := resp.Body.Close(); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("send %s -> %s: status %d", from, to, resp.StatusCode)
	}
	h.sink.Emit(generals.Event{
		Kind:  generals.EventSend,
		Round: round,
		From:  from,
		To:    to,
		Path:  msg.Path,
		Value: msg.Value,
	})
	return nil
}

// Broadcast sends the same message to every recipient.
func (h *HTTP) Broadcast(from generals.ID, recipients []generals.ID, msg generals.Message) error {
	for _, to := range recipients {
		if err := h.Send(from, to, msg); err != nil {
			return err
		}
	}
	return nil
}

// EndRound drains every queue into its receiver and advances the round.
func (h *HTTP) EndRound() error {
	h.mu.Lock()
	pending := h.queues
	h.queues = make(map[generals.ID][]generals.Message)
	receivers := make(map[generals.ID]generals.Receiver, len(h.receivers))
	for id, r := range h.receivers {
		receivers[id] = r
	}
	h.round++
	h.mu.Unlock()

	for to, msgs := range pending {
		r, ok := receivers[to]
		if !ok {
			return fmt.Errorf("no receiver attached for %s", to)
		}
		for _, msg := range msgs {
			r.Deliver(msg)
		}
	}
	return nil
}

// Close shuts every server down.
func (h *HTTP) Close() error {
	var errs []error
	for _, srv := range h.servers {
		errs = append(errs, srv.Close())
	}
	return errors.Join(errs...)
}
