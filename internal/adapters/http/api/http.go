// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sheexliies/ViperDraft/internal/adapters/roster"
	service "github.com/sheexliies/ViperDraft/internal/app"
	"github.com/sheexliies/ViperDraft/internal/domain/draft"
	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/types"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// maxBodyBytes bounds request bodies, CSV uploads included.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CandidateDependencies
	DraftDependencies
}

// CandidateDependencies covers candidate import and its dry run.
type CandidateDependencies interface {
	Import(ctx context.Context, candidates []model.Candidate) (types.ImportResponse, error)
	ImportCSV(ctx context.Context, r io.Reader) (types.ImportResponse, error)
	Preview(ctx context.Context, candidates []model.Candidate) (types.PreviewResponse, error)
	PreviewCSV(ctx context.Context, r io.Reader) (types.PreviewResponse, error)
	Template(w io.Writer) error
}

// DraftDependencies covers the draft lifecycle.
type DraftDependencies interface {
	Load(ctx context.Context, req types.LoadRequest) (types.DraftState, error)
	State(ctx context.Context) types.DraftState
	Pick(ctx context.Context, requestID string, manualID *int) (types.PickResponse, error)
	Undo(ctx context.Context) (types.UndoResponse, error)
	Swap(ctx context.Context, req types.SwapRequest) (types.DraftState, error)
	RequestSolve(ctx context.Context, maxAttempts int) (types.SolveAccepted, error)
	Risk(ctx context.Context, query string) (types.RiskResponse, error)
	Export(ctx context.Context, w io.Writer) error
	Reset(ctx context.Context) (types.DraftState, error)
	ClearAll(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	candidatesHandler *CandidatesHandler
	draftHandler      *DraftHandler
	limiter           *RateLimiter
	logger            logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits mutating requests to rps per second with the given
// burst. rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = NewRateLimiter(rps, burst)
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		limiter: NewRateLimiter(0, 0),
		logger:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.candidatesHandler = NewCandidatesHandler(deps, s.logger)
	s.draftHandler = NewDraftHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	limit := s.limiter.Middleware
	d, c := s.draftHandler, s.candidatesHandler

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /candidates", MetricsMiddleware(limit(c.HandleImport), "candidates"))
	mux.HandleFunc("GET /candidates/template", MetricsMiddleware(c.HandleTemplate, "candidates_template"))

	mux.HandleFunc("GET /draft", MetricsMiddleware(d.HandleGet, "draft"))
	mux.HandleFunc("POST /draft", MetricsMiddleware(limit(d.HandleLoad), "draft"))
	mux.HandleFunc("DELETE /draft", MetricsMiddleware(limit(d.HandleClear), "draft"))
	mux.HandleFunc("POST /draft/pick", MetricsMiddleware(limit(d.HandlePick), "draft_pick"))
	mux.HandleFunc("POST /draft/undo", MetricsMiddleware(limit(d.HandleUndo), "draft_undo"))
	mux.HandleFunc("POST /draft/solve", MetricsMiddleware(limit(d.HandleSolve), "draft_solve"))
	mux.HandleFunc("POST /draft/swap", MetricsMiddleware(limit(d.HandleSwap), "draft_swap"))
	mux.HandleFunc("POST /draft/reset", MetricsMiddleware(limit(d.HandleReset), "draft_reset"))
	mux.HandleFunc("GET /draft/risk", MetricsMiddleware(d.HandleRisk, "draft_risk"))
	mux.HandleFunc("GET /draft/export", MetricsMiddleware(d.HandleExport, "draft_export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an error to its HTTP status and code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrEnqueue):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnsupported):
		return http.StatusUnsupportedMediaType, "unsupported_media_type"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, roster.ErrEmptyInput),
		errors.Is(err, roster.ErrInvalidScore),
		errors.Is(err, roster.ErrRead):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, draft.ErrInvalidSettings):
		return http.StatusBadRequest, "invalid_settings"
	case errors.Is(err, draft.ErrInvalidCandidates):
		return http.StatusBadRequest, "invalid_candidates"
	case errors.Is(err, draft.ErrInsufficientPool):
		return http.StatusBadRequest, "insufficient_pool"
	case errors.Is(err, draft.ErrTeamNotFound):
		return http.StatusNotFound, "team_not_found"
	case errors.Is(err, draft.ErrCandidateNotRostered):
		return http.StatusNotFound, "candidate_not_rostered"
	case errors.Is(err, draft.ErrCandidateUnavailable):
		return http.StatusConflict, "candidate_unavailable"
	case errors.Is(err, draft.ErrNotLoaded):
		return http.StatusConflict, "not_loaded"
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, service.ErrDraftIncomplete):
		return http.StatusConflict, "draft_incomplete"
	case errors.Is(err, service.ErrDraftComplete):
		return http.StatusConflict, "draft_complete"
	case errors.Is(err, draft.ErrInfeasible):
		return http.StatusUnprocessableEntity, "infeasible"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_started"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with its mapped status. Server errors are logged.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
	}
	writeError(w, status, code, Wrap(op, err))
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decode(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
