package server

import (
	"context"
	"sync"

	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/store"
	"github.com/matzehuels/visualizeme/pkg/view"
)

// session is one live document. Its mutex guards the document, the
// diagram and the subscriber set, so an event is applied, laid out and
// rendered as one step. A closed session was deleted and accepts no
// further events.
type session struct {
	mu      sync.Mutex
	doc     *document.Document
	diagram *view.Diagram
	subs    map[*subscriber]struct{}
	closed  bool
}

func newSession(doc *document.Document, d *view.Diagram) *session {
	return &session{doc: doc, diagram: d, subs: make(map[*subscriber]struct{})}
}

// subscriber is a WebSocket connection watching a session.
type subscriber struct {
	send chan outbound
}

func newSubscriber() *subscriber {
	return &subscriber{send: make(chan outbound, 16)}
}

// push queues out without blocking. When the queue is full the oldest
// message is dropped; a later render supersedes it anyway.
func (sub *subscriber) push(out outbound) {
	select {
	case sub.send <- out:
		return
	default:
	}
	select {
	case <-sub.send:
	default:
	}
	select {
	case sub.send <- out:
	default:
	}
}

func (ss *session) unsubscribe(sub *subscriber) {
	ss.mu.Lock()
	delete(ss.subs, sub)
	ss.mu.Unlock()
}

// broadcastLocked sends out to every subscriber except from. The caller
// holds ss.mu.
func (ss *session) broadcastLocked(out outbound, from *subscriber) {
	for sub := range ss.subs {
		if sub != from {
			sub.push(out)
		}
	}
}

// session returns the live session for id, restoring it from the store
// when it is not in memory.
func (s *Server) session(ctx context.Context, id string) (*session, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	ss, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return ss, nil
	}

	snap, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := document.Restore(snap, s.runner.Parser)
	if err != nil {
		return nil, err
	}
	d, _, err := pipeline.GenerateLayout(ctx, doc, s.opts)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("restored document", "id", id, "name", doc.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	ss = newSession(doc, d)
	s.sessions[id] = ss
	return ss, nil
}

func (s *Server) addSession(ss *session) {
	s.mu.Lock()
	s.sessions[ss.doc.ID] = ss
	s.mu.Unlock()
}

func (s *Server) dropSession(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.sessions[id]
	delete(s.sessions, id)
	return ss
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()
	for _, ss := range sessions {
		ss.mu.Lock()
		for sub := range ss.subs {
			sub.push(outbound{Type: msgClosed})
		}
		ss.mu.Unlock()
	}
}

// persist snapshots the session's document. The caller holds ss.mu.
func (s *Server) persist(ctx context.Context, ss *session) error {
	snap, err := ss.doc.Snapshot()
	if err != nil {
		return err
	}
	return s.store.Put(ctx, snap)
}

// closeLocked marks the session deleted and tells its subscribers. The
// caller holds ss.mu.
func (ss *session) closeLocked() {
	ss.closed = true
	ss.broadcastLocked(outbound{Type: msgClosed}, nil)
}

// apply dispatches ev against the session and keeps the document in step
// with committed edits. The caller holds ss.mu.
func (s *Server) apply(ctx context.Context, ss *session, ev view.Event) view.Outcome {
	if ss.closed {
		return view.Outcome{
			Kind:   ev.Kind(),
			Code:   errors.ErrCodeDocumentNotFound,
			Status: "document was deleted",
		}
	}
	out := ss.diagram.Dispatch(ctx, ev)
	if out.OK && ev.Kind() == view.EventCommit {
		ss.doc.SetValue(ss.diagram.Value())
		if err := s.persist(ctx, ss); err != nil {
			s.logger.Warn("snapshot failed", "id", ss.doc.ID, "error", err)
		}
	}
	return out
}
