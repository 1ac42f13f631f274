package server

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/visualizeme/pkg/buildinfo"
	"github.com/matzehuels/visualizeme/pkg/document"
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/render"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/store"
	"github.com/matzehuels/visualizeme/pkg/view"
)

type createRequest struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
	Text string `json:"text"`
}

// documentState is the JSON view of a session.
type documentState struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Mode        string           `json:"mode"`
	Nodes       int              `json:"nodes"`
	Visible     int              `json:"visible"`
	Depth       int              `json:"depth"`
	Exports     []string         `json:"exports,omitempty"`
	HasMetadata bool             `json:"has_metadata"`
	Collapsed   []string         `json:"collapsed"`
	Search      string           `json:"search,omitempty"`
	Matches     []string         `json:"matches,omitempty"`
	Hover       string           `json:"hover,omitempty"`
	Edit        *view.EditView   `json:"edit,omitempty"`
	Transform   render.Transform `json:"transform"`
	UpdatedAt   time.Time        `json:"updated_at"`
	SVG         string           `json:"svg,omitempty"`
}

type summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mode      string    `json:"mode"`
	UpdatedAt time.Time `json:"updated_at"`
}

type capabilities struct {
	SourceLiteral bool     `json:"source_literal"`
	Conversion    bool     `json:"conversion"`
	Modes         []string `json:"modes"`
	Formats       []string `json:"formats"`
	Engines       []string `json:"engines"`
	Themes        []string `json:"themes"`
}

type eventResponse struct {
	Outcome view.Outcome `json:"outcome"`
	SVG     string       `json:"svg,omitempty"`
}

// stateLocked describes ss. The caller holds ss.mu.
func stateLocked(ss *session, withSVG bool) documentState {
	d := ss.diagram
	st := documentState{
		ID:          ss.doc.ID,
		Name:        ss.doc.Name,
		Mode:        string(ss.doc.Mode),
		HasMetadata: ss.doc.HasMetadata(),
		Collapsed:   collapsedKeys(d),
		Search:      d.SearchTerm(),
		Matches:     d.Matches(),
		Hover:       d.Hovered(),
		Edit:        d.Editing(),
		Transform:   d.Transform(),
		UpdatedAt:   ss.doc.UpdatedAt,
	}
	if ss.doc.Metadata != nil {
		st.Exports = ss.doc.Metadata.Names()
	}
	if t := d.Tree(); t != nil {
		st.Nodes = t.Len()
		st.Depth = t.Depth()
	}
	st.Visible = len(d.Layout().Nodes)
	if withSVG {
		st.SVG = string(d.Render())
	}
	return st
}

func collapsedKeys(d *view.Diagram) []string {
	keys := []string{}
	for k, on := range d.Collapse() {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

type health struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, health{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	modes := make([]string, len(source.Modes))
	for i, m := range source.Modes {
		modes[i] = string(m)
	}
	writeJSON(w, http.StatusOK, capabilities{
		SourceLiteral: s.runner.Parser.SourceLiteralAvailable(),
		Conversion:    render.ConversionAvailable(),
		Modes:         modes,
		Formats:       pipeline.FormatNames(),
		Engines:       []string{pipeline.EngineNative, pipeline.EngineGraphviz},
		Themes:        render.Themes,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]summary, len(snaps))
	for i, snap := range snaps {
		out[i] = summary{ID: snap.ID, Name: snap.Name, Mode: snap.Mode, UpdatedAt: snap.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode := source.ModeForFilename(req.Name)
	if req.Mode != "" {
		m, err := source.ParseMode(req.Mode)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		mode = m
	}

	ctx := r.Context()
	doc := document.New(s.runner.Parser)
	if err := s.runner.Import(ctx, doc, req.Name, req.Text, mode); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, _, err := pipeline.GenerateLayout(ctx, doc, s.opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ss := newSession(doc, d)
	if err := s.persist(ctx, ss); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.addSession(ss)

	ss.mu.Lock()
	st := stateLocked(ss, true)
	ss.mu.Unlock()
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ss, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ss.mu.Lock()
	st := stateLocked(ss, r.URL.Query().Get("svg") == "1")
	ss.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

// handleDelete closes the live session before removing the snapshot, so
// a commit already holding the session cannot write the snapshot back.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if ss := s.dropSession(id); ss != nil {
		ss.mu.Lock()
		ss.closeLocked()
		ss.mu.Unlock()
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSVG serves the live, interactive rendering including hover,
// selection and transform.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	ss, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ss.mu.Lock()
	svg := ss.diagram.Render()
	ss.mu.Unlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// handleRender produces a cacheable artifact of the document's collapse
// and search state through the pipeline.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ss, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := s.opts
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("theme"); v != "" {
		opts.Theme = v
	}
	opts.Static = q.Get("static") == "1"
	opts.Detailed = q.Get("detailed") == "1"
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	ss.mu.Lock()
	opts.Collapsed = collapsedKeys(ss.diagram)
	opts.Search = ss.diagram.SearchTerm()
	res, err := s.runner.Execute(r.Context(), ss.doc, opts)
	ss.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	_, _ = w.Write(res.Artifacts[format])
}

// handleExport downloads the value. Errors are reported before any
// attachment header is sent, so a failed export never yields a file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ss, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(serialize.FormatJSON)
	}
	f, err := serialize.ParseFormat(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ss.mu.Lock()
	data, err := ss.doc.Export(f, time.Now())
	filename := ss.doc.Filename(f)
	ss.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateFilename(filename); err != nil {
		filename = "export" + f.Extension()
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ss, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read event"))
		return
	}
	ev, err := view.DecodeEvent(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ss.mu.Lock()
	out := s.apply(r.Context(), ss, ev)
	resp := eventResponse{Outcome: out}
	if out.Relayout || out.Restyle {
		resp.SVG = string(ss.diagram.Render())
		ss.broadcastLocked(outbound{Type: msgRender, Outcome: &out, SVG: resp.SVG}, nil)
	}
	ss.mu.Unlock()

	status := http.StatusOK
	if !out.OK {
		status = statusFor(out.Code)
	}
	writeJSON(w, status, resp)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	case pipeline.FormatLayout:
		return "application/json"
	}
	if pipeline.IsExport(format) {
		return serialize.Format(format).ContentType()
	}
	return "application/octet-stream"
}
