package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/observability"
	"github.com/matzehuels/visualizeme/pkg/view"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

// Outbound message types.
const (
	msgState   = "state"   // full state on connect
	msgOutcome = "outcome" // result of this connection's event
	msgRender  = "render"  // another client changed the document
	msgError   = "error"
	msgPong    = "pong"
	msgClosed  = "closed" // the document was deleted or the server stops
)

// checkOrigin admits requests without an Origin header, origins on the
// request's own host and the configured extra origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.origins {
		if strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

type outbound struct {
	Type    string         `json:"type"`
	Outcome *view.Outcome  `json:"outcome,omitempty"`
	SVG     string         `json:"svg,omitempty"`
	State   *documentState `json:"state,omitempty"`
	Code    errors.Code    `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
}

// handleSocket upgrades to a WebSocket that accepts the same event
// envelopes as POST .../events. Search events are debounced per
// connection; every other event is applied immediately.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ss, err := s.session(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	hooks := observability.Server()
	hooks.OnSocket(ctx, id, 1)
	defer hooks.OnSocket(context.WithoutCancel(ctx), id, -1)

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	sub := newSubscriber()
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(ctx, conn, sub)
	}()

	ss.mu.Lock()
	if ss.closed {
		sub.push(outbound{Type: msgClosed})
	} else {
		st := stateLocked(ss, true)
		ss.subs[sub] = struct{}{}
		sub.push(outbound{Type: msgState, State: &st})
	}
	ss.mu.Unlock()
	defer ss.unsubscribe(sub)

	debouncer := view.NewDebouncer(s.debounce)
	defer debouncer.Cancel()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			cancel()
			<-writerDone
			return
		}

		var head struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(data, &head) == nil && head.Type == "ping" {
			sub.push(outbound{Type: msgPong})
			continue
		}

		ev, err := view.DecodeEvent(data)
		if err != nil {
			sub.push(outbound{Type: msgError, Code: errors.GetCode(err), Message: errors.UserMessage(err)})
			continue
		}
		if ev.Kind() == view.EventSearch {
			debouncer.Trigger(func() { s.applySocketEvent(ctx, ss, sub, ev) })
			continue
		}
		s.applySocketEvent(ctx, ss, sub, ev)
	}
}

func (s *Server) applySocketEvent(ctx context.Context, ss *session, sub *subscriber, ev view.Event) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.closed {
		sub.push(outbound{Type: msgClosed})
		return
	}
	out := s.apply(ctx, ss, ev)
	msg := outbound{Type: msgOutcome, Outcome: &out}
	if out.Relayout || out.Restyle {
		msg.SVG = string(ss.diagram.Render())
		ss.broadcastLocked(outbound{Type: msgRender, Outcome: &out, SVG: msg.SVG}, sub)
	}
	sub.push(msg)
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, sub *subscriber) {
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case out := <-sub.send:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(out); err != nil {
				return
			}
			if out.Type == msgClosed {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "document closed"))
				// unblocks the read loop
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
