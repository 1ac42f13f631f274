package view

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/observability"
	"github.com/matzehuels/visualizeme/pkg/render"
)

// EventKind names an Event variant on the wire.
type EventKind string

const (
	EventToggle EventKind = "toggle"
	EventHover  EventKind = "hover"
	EventSelect EventKind = "select"
	EventCommit EventKind = "commit"
	EventSearch EventKind = "search"
	EventPan    EventKind = "pan"
	EventZoom   EventKind = "zoom"
	EventReset  EventKind = "reset"
)

// Event is one user action against a Diagram. The set of variants is
// closed: ToggleEvent, HoverEvent, SelectEvent, CommitEvent, SearchEvent,
// PanEvent, ZoomEvent and ResetEvent.
type Event interface {
	Kind() EventKind
	event()
}

type ToggleEvent struct{ Path string }
type HoverEvent struct{ Path string }
type SelectEvent struct{ Path string }
type CommitEvent struct{ Path, Text string }
type SearchEvent struct{ Term string }
type PanEvent struct{ DX, DY float64 }
type ZoomEvent struct{ Factor, X, Y float64 }
type ResetEvent struct{}

func (ToggleEvent) Kind() EventKind { return EventToggle }
func (HoverEvent) Kind() EventKind  { return EventHover }
func (SelectEvent) Kind() EventKind { return EventSelect }
func (CommitEvent) Kind() EventKind { return EventCommit }
func (SearchEvent) Kind() EventKind { return EventSearch }
func (PanEvent) Kind() EventKind    { return EventPan }
func (ZoomEvent) Kind() EventKind   { return EventZoom }
func (ResetEvent) Kind() EventKind  { return EventReset }

func (ToggleEvent) event() {}
func (HoverEvent) event()  {}
func (SelectEvent) event() {}
func (CommitEvent) event() {}
func (SearchEvent) event() {}
func (PanEvent) event()    {}
func (ZoomEvent) event()   {}
func (ResetEvent) event()  {}

// envelope is the JSON form of an Event.
type envelope struct {
	Type   EventKind `json:"type"`
	Path   *string   `json:"path,omitempty"`
	Text   *string   `json:"text,omitempty"`
	Term   *string   `json:"term,omitempty"`
	DX     float64   `json:"dx,omitempty"`
	DY     float64   `json:"dy,omitempty"`
	Factor float64   `json:"factor,omitempty"`
	X      float64   `json:"x,omitempty"`
	Y      float64   `json:"y,omitempty"`
}

// DecodeEvent parses the JSON form of an event, for example
// {"type":"commit","path":"[\"a\"]","text":"2"}.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "malformed event")
	}
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	require := func(p *string, field string) error {
		if p == nil {
			return errors.New(errors.ErrCodeInvalidEvent, "%s event requires %q", env.Type, field)
		}
		return nil
	}

	switch env.Type {
	case EventToggle:
		if err := require(env.Path, "path"); err != nil {
			return nil, err
		}
		return ToggleEvent{Path: *env.Path}, nil
	case EventHover:
		return HoverEvent{Path: str(env.Path)}, nil
	case EventSelect:
		return SelectEvent{Path: str(env.Path)}, nil
	case EventCommit:
		if err := require(env.Path, "path"); err != nil {
			return nil, err
		}
		if err := require(env.Text, "text"); err != nil {
			return nil, err
		}
		return CommitEvent{Path: *env.Path, Text: *env.Text}, nil
	case EventSearch:
		return SearchEvent{Term: str(env.Term)}, nil
	case EventPan:
		return PanEvent{DX: env.DX, DY: env.DY}, nil
	case EventZoom:
		return ZoomEvent{Factor: env.Factor, X: env.X, Y: env.Y}, nil
	case EventReset:
		return ResetEvent{}, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidEvent, "event type is required")
	}
	return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", env.Type)
}

// EncodeEvent returns the JSON form of ev.
func EncodeEvent(ev Event) ([]byte, error) {
	env := envelope{Type: ev.Kind()}
	switch e := ev.(type) {
	case ToggleEvent:
		env.Path = &e.Path
	case HoverEvent:
		env.Path = &e.Path
	case SelectEvent:
		env.Path = &e.Path
	case CommitEvent:
		env.Path, env.Text = &e.Path, &e.Text
	case SearchEvent:
		env.Term = &e.Term
	case PanEvent:
		env.DX, env.DY = e.DX, e.DY
	case ZoomEvent:
		env.Factor, env.X, env.Y = e.Factor, e.X, e.Y
	}
	return json.Marshal(env)
}

// Outcome reports how an Event was applied.
type Outcome struct {
	Kind   EventKind   `json:"kind"`
	OK     bool        `json:"ok"`
	Status string      `json:"status,omitempty"`
	Code   errors.Code `json:"code,omitempty"`

	// Relayout is set when node positions changed; Restyle when only
	// highlight classes or the transform did.
	Relayout bool `json:"relayout"`
	Restyle  bool `json:"restyle"`

	Collapsed *bool             `json:"collapsed,omitempty"`
	Matches   []string          `json:"matches,omitempty"`
	Edit      *EditView         `json:"edit,omitempty"`
	Transform *render.Transform `json:"transform,omitempty"`
}

// Dispatch applies ev and reports the result. User mistakes such as an
// invalid edit or an unknown path are returned in the Outcome with the
// model left unchanged.
func (d *Diagram) Dispatch(ctx context.Context, ev Event) Outcome {
	start := time.Now()
	out, err := d.apply(ev)
	out.Kind = ev.Kind()
	if err != nil {
		out = Outcome{Kind: ev.Kind(), Status: errors.UserMessage(err), Code: errors.GetCode(err)}
	} else {
		out.OK = true
	}
	observability.Interaction().OnEvent(ctx, string(ev.Kind()), time.Since(start), err)
	if out.Relayout {
		observability.Interaction().OnRebuild(ctx, d.tree.Len(), time.Since(start))
	}
	return out
}

func (d *Diagram) apply(ev Event) (Outcome, error) {
	switch e := ev.(type) {
	case ToggleEvent:
		collapsed, err := d.ToggleCollapse(e.Path)
		if err != nil {
			return Outcome{}, err
		}
		status := "expanded"
		if collapsed {
			status = "collapsed"
		}
		return Outcome{Relayout: true, Collapsed: &collapsed, Status: status}, nil

	case HoverEvent:
		if err := d.Hover(e.Path); err != nil {
			return Outcome{}, err
		}
		return Outcome{Restyle: true}, nil

	case SelectEvent:
		edit, err := d.Select(e.Path)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Restyle: true, Edit: edit}, nil

	case CommitEvent:
		if err := d.CommitEdit(e.Path, e.Text); err != nil {
			return Outcome{}, err
		}
		return Outcome{Relayout: true, Edit: d.edit, Matches: d.Matches(), Status: "saved"}, nil

	case SearchEvent:
		n, err := d.Search(e.Term)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Restyle: true, Matches: d.Matches(), Status: matchStatus(e.Term, n)}, nil

	case PanEvent:
		d.Pan(e.DX, e.DY)
		return d.flushOutcome(), nil

	case ZoomEvent:
		if err := d.ZoomAt(e.Factor, e.X, e.Y); err != nil {
			return Outcome{}, err
		}
		return d.flushOutcome(), nil

	case ResetEvent:
		d.ResetView()
		return d.flushOutcome(), nil
	}
	return Outcome{}, errors.New(errors.ErrCodeInvalidEvent, "unsupported event %T", ev)
}

func (d *Diagram) flushOutcome() Outcome {
	t, changed := d.Flush()
	return Outcome{Restyle: changed, Transform: &t}
}

func matchStatus(term string, n int) string {
	switch {
	case term == "":
		return "search cleared"
	case n == 1:
		return "1 match"
	default:
		return strconv.Itoa(n) + " matches"
	}
}
