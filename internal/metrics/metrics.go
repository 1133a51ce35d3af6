// Package metrics holds the prometheus collectors for the engine and the demo server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "roster"

// Engine counts paging, scope and save activity. A nil *Engine is valid and
// records nothing.
type Engine struct {
	Fetches     *prometheus.CounterVec
	Outcomes    *prometheus.CounterVec
	Denied      *prometheus.CounterVec
	Stale       prometheus.Counter
	Saves       *prometheus.CounterVec
	ScopeResets prometheus.Counter
}

// NewEngine builds engine collectors and registers them on reg when non-nil.
func NewEngine(reg prometheus.Registerer) *Engine {
	m := &Engine{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Page fetches issued, by page kind.",
		}, []string{"page"}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_outcomes_total",
			Help:      "Resolved page fetches, by outcome.",
		}, []string{"outcome"}),
		Denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_denied_total",
			Help:      "Fetch attempts refused by the gate, by reason.",
		}, []string{"reason"}),
		Stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Fetch completions discarded because their scope or request was abandoned.",
		}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Record saves, by result.",
		}, []string{"result"}),
		ScopeResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_resets_total",
			Help:      "Hard resets of the cached view.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Fetches, m.Outcomes, m.Denied, m.Stale, m.Saves, m.ScopeResets)
	}
	return m
}

// FetchIssued counts a page request, split into the first page and later ones.
func (m *Engine) FetchIssued(pageIndex int) {
	if m == nil {
		return
	}
	page := "next"
	if pageIndex == 0 {
		page = "first"
	}
	m.Fetches.WithLabelValues(page).Inc()
}

// FetchResolved counts a fetch outcome: success, empty or failure.
func (m *Engine) FetchResolved(outcome string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
}

// FetchDenied counts a refused LoadMore, by reason: in_flight or exhausted.
func (m *Engine) FetchDenied(reason string) {
	if m == nil {
		return
	}
	m.Denied.WithLabelValues(reason).Inc()
}

// StaleDiscarded counts a response dropped because a newer request superseded it.
func (m *Engine) StaleDiscarded() {
	if m == nil {
		return
	}
	m.Stale.Inc()
}

// SaveResolved counts a finished save.
func (m *Engine) SaveResolved(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.Saves.WithLabelValues(result).Inc()
}

// ScopeReset counts a reload or scope change that cleared the cached view.
func (m *Engine) ScopeReset() {
	if m == nil {
		return
	}
	m.ScopeResets.Inc()
}

// Server counts demo backend requests.
type Server struct {
	Requests *prometheus.CounterVec
}

// NewServer builds server collectors and registers them on reg when non-nil.
func NewServer(reg prometheus.Registerer) *Server {
	m := &Server{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests)
	}
	return m
}

// Observe counts one served request. Codes are bucketed into classes.
func (m *Server) Observe(route string, code int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, statusClass(code)).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
