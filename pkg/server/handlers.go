package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pqcgraph/pkg/assess"
	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

// EntitySummary is the listing form of an entity.
type EntitySummary struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Kind      graph.Kind   `json:"type"`
	Layer     int          `json:"layer"`
	Status    graph.Status `json:"status,omitempty"`
	Readiness graph.Status `json:"readiness"`
}

func summarize(entities []*graph.Entity) []EntitySummary {
	out := make([]EntitySummary, 0, len(entities))
	for _, e := range entities {
		out = append(out, EntitySummary{
			ID:        e.ID,
			Name:      e.DisplayName(),
			Kind:      e.Kind,
			Layer:     e.Layer,
			Status:    e.Status,
			Readiness: overlay.Readiness(e),
		})
	}
	return out
}

func (s *Server) entity(id string) (*graph.Entity, error) {
	if err := errors.ValidateEntityID(id); err != nil {
		return nil, err
	}
	e, ok := s.graph.Entity(id)
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeEntityNotFound, graph.ErrUnknownEntity, "entity %q", id)
	}
	return e, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, appsReady := s.dataset.Applications().Ready()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"entities":           s.graph.EntityCount(),
		"relations":          s.graph.RelationCount(),
		"last_updated":       s.graph.LastUpdated(),
		"applications_ready": appsReady,
		"uptime":             time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.layout)
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	var f explore.Filter
	if v := r.URL.Query().Get("layer"); v != "" {
		layer, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, badRequest("layer must be an integer, got %q", v))
			return
		}
		f.Layer = &layer
	}
	f.Status = graph.Status(r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, summarize(f.Apply(s.graph)))
}

type entityResponse struct {
	explore.Details
	Applications []explore.Application `json:"applications,omitempty"`
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	e, err := s.entity(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := entityResponse{Details: explore.EntityDetails(s.graph, e)}
	if apps, ok := s.dataset.Applications().Ready(); ok {
		if x := explore.ExpandedApplications(explore.State{Selected: e}, apps); x != nil {
			resp.Applications = x.Applications
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := errors.ValidateQuery(q); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(explore.Search(s.graph, q)))
}

// BaselineResponse is the baseline overlay for one mode.
type BaselineResponse struct {
	Mode      overlay.Mode `json:"mode"`
	Label     string       `json:"label"`
	Seeds     []string     `json:"seeds"`
	Reachable []string     `json:"reachable"`
	Neutral   []string     `json:"neutral"`
	Passes    int          `json:"passes"`
	Growth    []int        `json:"growth"`
}

func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	mode, err := overlay.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := s.baselines[mode]
	resp := BaselineResponse{
		Mode:   mode,
		Label:  mode.Label(),
		Seeds:  res.Seeds,
		Passes: res.Passes,
		Growth: res.Growth,
	}
	// Graph order keeps the lists stable.
	for _, e := range s.graph.Entities() {
		if res.Reachable[e.ID] {
			resp.Reachable = append(resp.Reachable, e.ID)
		}
		if res.Neutral[e.ID] {
			resp.Neutral = append(resp.Neutral, e.ID)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Exploration actions.
const (
	ActionExplore    = "explore"
	ActionBack       = "back"
	ActionReset      = "reset"
	ActionBreadcrumb = "breadcrumb"
	ActionSearch     = "search"
	ActionNone       = ""
)

// ExploreRequest carries the client's current state and one action.
type ExploreRequest struct {
	Chain         []string `json:"chain"`
	RevealedDepth *int     `json:"revealed_depth,omitempty"`
	Selected      string   `json:"selected,omitempty"`

	Action string `json:"action"`
	Target string `json:"target,omitempty"` // entity for explore and search
	Layer  int    `json:"layer,omitempty"`  // breadcrumb layer

	Expanded bool         `json:"expanded,omitempty"`
	Baseline overlay.Mode `json:"baseline,omitempty"`
	Stack    []string     `json:"stack,omitempty"`
}

// ExploreResponse is the state after the action with its derived views.
type ExploreResponse struct {
	Chain         []string              `json:"chain"`
	RevealedDepth int                   `json:"revealed_depth"`
	Selected      string                `json:"selected,omitempty"`
	Breadcrumb    []explore.Crumb       `json:"breadcrumb"`
	Salience      salience.Resolution   `json:"salience"`
	Applications  []explore.Application `json:"applications,omitempty"`
}

// restore rebuilds a State by replaying the chain, so a malformed chain
// from a client still yields a valid one.
func (s *Server) restore(req ExploreRequest) (explore.State, error) {
	st := explore.Idle()
	for _, id := range req.Chain {
		e, err := s.entity(id)
		if err != nil {
			return st, err
		}
		if !st.InChain(e.ID) {
			st = st.Explore(e)
		}
	}
	if req.RevealedDepth != nil {
		st.RevealedDepth = min(max(*req.RevealedDepth, 0), explore.MaxDepth)
	}
	if req.Selected != "" {
		e, err := s.entity(req.Selected)
		if err != nil {
			return st, err
		}
		st.Selected = e
	}
	return st, nil
}

func (s *Server) apply(st explore.State, req ExploreRequest) (explore.State, error) {
	switch req.Action {
	case ActionNone:
		return st, nil
	case ActionExplore, ActionSearch:
		e, err := s.entity(req.Target)
		if err != nil {
			return st, err
		}
		if req.Action == ActionSearch {
			return st.JumpFromSearch(e), nil
		}
		return st.Explore(e), nil
	case ActionBack:
		return st.GoBack(), nil
	case ActionReset:
		return st.Reset(), nil
	case ActionBreadcrumb:
		if req.Layer < 0 || req.Layer > explore.MaxDepth {
			return st, badRequest("breadcrumb layer %d out of range", req.Layer)
		}
		return st.JumpToBreadcrumb(req.Layer), nil
	}
	return st, badRequest("unknown action %q", req.Action)
}

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	var req ExploreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.restore(req)
	if err == nil {
		st, err = s.apply(st, req)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	sctx := salience.Context{Graph: s.graph, State: st}
	if req.Baseline != "" {
		mode, err := overlay.ParseMode(string(req.Baseline))
		if err != nil {
			writeError(w, r, err)
			return
		}
		sctx.Baseline = s.baselines[mode]
	}
	if len(req.Stack) > 0 {
		a, err := s.runner.Assess(r.Context(), s.graph, req.Stack)
		if err != nil {
			writeError(w, r, err)
			return
		}
		sctx.Stack = a.ChainSet()
	}

	resp := ExploreResponse{
		Chain:         st.ChainIDs(),
		RevealedDepth: st.RevealedDepth,
		Breadcrumb:    explore.Breadcrumb(st, req.Expanded),
		Salience:      s.runner.Salience(r.Context(), sctx),
	}
	if st.Selected != nil {
		resp.Selected = st.Selected.ID
	}
	if apps, ok := s.dataset.Applications().Ready(); ok {
		if x := explore.ExpandedApplications(st, apps); x != nil {
			resp.Applications = x.Applications
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStackOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.options)
}

// AssessResponse is an assessment with its verdict.
type AssessResponse struct {
	*assess.Assessment
	Verdict graph.Status `json:"verdict"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var sel assess.Selection
	if err := decodeBody(r, &sel); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.runner.Assess(r.Context(), s.graph, sel.IDs())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AssessResponse{Assessment: a, Verdict: a.Verdict()})
}
