// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sheexliies/ViperDraft/internal/adapters/mq/queue"
	"github.com/sheexliies/ViperDraft/internal/adapters/mq/worker"
	"github.com/sheexliies/ViperDraft/internal/adapters/repository"
	"github.com/sheexliies/ViperDraft/internal/adapters/roster"
	"github.com/sheexliies/ViperDraft/internal/domain/dedupe"
	"github.com/sheexliies/ViperDraft/internal/domain/draft"
	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/types"
	"github.com/sheexliies/ViperDraft/pkg/logger"
	"github.com/sheexliies/ViperDraft/pkg/metrics"
)

const (
	defaultSession   = "default"
	shutdownTimeout  = 5 * time.Second
	solveStatusQueue = "queued"
)

// Service owns one draft session. All engine access is serialized by mu.
// While an auto draft is queued or running, reads are served from a view
// published at enqueue time so polls never wait for the solver.
type Service struct {
	mu      sync.Mutex
	solving atomic.Pointer[solvingView]

	// Core components
	engine  *draft.Engine
	store   repository.Store
	deduper dedupe.Deduper
	queue   queue.Queue
	worker  *worker.InMemoryWorker

	// Configuration
	session     string
	defaults    model.Settings
	maxAttempts int
	queueSize   int
	dedupeSize  int
	engineOpts  []draft.Option

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	picks     atomic.Int64
	undos     atomic.Int64
	swaps     atomic.Int64
	solves    atomic.Int64

	// Logging
	logger logger.Logger
}

// solvingView is the state captured when an auto draft was queued.
type solvingView struct {
	state     types.DraftState
	queue     queue.Queue
	startedAt time.Time
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		session:     defaultSession,
		maxAttempts: draft.DefaultMaxAttempts,
		queueSize:   8,
		dedupeSize:  dedupe.DefaultMaxSize,
		defaults: model.Settings{
			TeamsCount:       20,
			TeammatesPerTeam: 3,
			MinScore:         12,
			MaxScore:         15,
		},
		logger: logger.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.logger = s.logger.Named("service")
	s.engine = draft.New(append([]draft.Option{draft.WithLogger(s.logger.Named("engine"))}, s.engineOpts...)...)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start restores the saved session and starts the solve worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting draft service...", logger.String("session", s.session))

	snap, err := s.store.Load(ctx, s.session)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Info(ctx, "no saved session, starting empty")
	case err != nil:
		s.logger.Warn(ctx, "failed to load saved session, starting empty", logger.Error(err))
	default:
		if rerr := s.engine.Restore(snap); rerr != nil {
			s.logger.Warn(ctx, "saved session rejected, starting empty", logger.Error(rerr))
		} else {
			s.logger.Info(ctx, "session restored",
				logger.Int("candidates", len(snap.Candidates)),
				logger.Bool("loaded", snap.Loaded),
				logger.Int("cursor", s.engine.Status().Cursor))
		}
	}
	metrics.UpdateCandidatesTotal(len(s.engine.Candidates()))
	metrics.UpdateDraftProgress(s.engine.Status().Progress)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s, worker.WithLogger(s.logger))
	go s.worker.Run(runCtx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "draft service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxAttempts", s.maxAttempts),
	)
	return nil
}

// Stop gracefully shuts down the service. A queued or running auto draft is
// abandoned.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	w, q, cancel := s.worker, s.queue, s.cancel
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping draft service...")

	cancel()
	shutdownCtx, done := context.WithTimeout(ctx, shutdownTimeout)
	defer done()
	if err := w.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "solve worker did not stop in time", logger.Error(err))
	}
	_ = q.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.Status().Solving {
		s.engine.SetSolving(false)
		s.solving.Store(nil)
		s.persist(ctx)
	}
	s.logger.Info(ctx, "draft service stopped")
}

// Import replaces the candidate list and discards any draft.
func (s *Service) Import(ctx context.Context, candidates []model.Candidate) (types.ImportResponse, error) {
	if s.busy() {
		return types.ImportResponse{}, ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.idle(); err != nil {
		return types.ImportResponse{}, err
	}
	if err := s.engine.SetCandidates(candidates); err != nil {
		return types.ImportResponse{}, err
	}
	s.deduper.Reset(ctx)
	metrics.UpdateCandidatesTotal(len(candidates))
	metrics.UpdateDraftProgress(0)
	s.logger.Info(ctx, "candidates imported", logger.Int("count", len(candidates)))
	s.persist(ctx)
	return types.ImportResponse{Imported: len(candidates)}, nil
}

// ImportCSV parses r with the roster reader and imports the result.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (types.ImportResponse, error) {
	candidates, err := roster.Read(r)
	if err != nil {
		return types.ImportResponse{}, err
	}
	return s.Import(ctx, candidates)
}

// Preview validates candidates the way Import does and returns them
// without touching the draft. It is allowed while an auto draft runs.
func (s *Service) Preview(ctx context.Context, candidates []model.Candidate) (types.PreviewResponse, error) {
	if err := draft.ValidateCandidates(candidates); err != nil {
		return types.PreviewResponse{}, err
	}
	resp := types.PreviewResponse{Count: len(candidates), Candidates: model.CloneCandidates(candidates)}
	for _, c := range candidates {
		resp.TotalScore += c.Score
	}
	s.logger.Debug(ctx, "candidates previewed", logger.Int("count", resp.Count))
	return resp, nil
}

// PreviewCSV parses r with the roster reader and previews the result.
func (s *Service) PreviewCSV(ctx context.Context, r io.Reader) (types.PreviewResponse, error) {
	candidates, err := roster.Read(r)
	if err != nil {
		return types.PreviewResponse{}, err
	}
	return s.Preview(ctx, candidates)
}

// Load starts a new draft. Fields req leaves unset use the defaults.
func (s *Service) Load(ctx context.Context, req types.LoadRequest) (types.DraftState, error) {
	if s.busy() {
		return types.DraftState{}, ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.idle(); err != nil {
		return types.DraftState{}, err
	}
	if err := s.engine.Load(req.Apply(s.defaults)); err != nil {
		return types.DraftState{}, err
	}
	s.deduper.Reset(ctx)
	metrics.RecordDraftLoad()
	metrics.UpdateDraftProgress(0)
	s.persist(ctx)
	return s.state(), nil
}

// Reset discards the draft and keeps the candidates.
func (s *Service) Reset(ctx context.Context) (types.DraftState, error) {
	if s.busy() {
		return types.DraftState{}, ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.idle(); err != nil {
		return types.DraftState{}, err
	}
	s.engine.Reset()
	s.deduper.Reset(ctx)
	metrics.UpdateDraftProgress(0)
	s.logger.Info(ctx, "draft reset")
	s.persist(ctx)
	return s.state(), nil
}

// ClearAll discards the draft, the candidates and the saved snapshot.
func (s *Service) ClearAll(ctx context.Context) error {
	if s.busy() {
		return ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.idle(); err != nil {
		return err
	}
	s.engine.Clear()
	s.deduper.Reset(ctx)
	metrics.UpdateCandidatesTotal(0)
	metrics.UpdateDraftProgress(0)
	if err := s.store.Delete(ctx, s.session); err != nil && !errors.Is(err, repository.ErrNotFound) {
		metrics.RecordSnapshotError()
		return fmt.Errorf("delete session %s: %w", s.session, err)
	}
	s.logger.Info(ctx, "all data cleared")
	return nil
}

// Pick advances the draft by one pick. A non-empty requestID makes the call
// idempotent: repeating it returns the current state without picking again.
// A nil manualID lets the engine choose.
func (s *Service) Pick(ctx context.Context, requestID string, manualID *int) (types.PickResponse, error) {
	if s.busy() {
		return types.PickResponse{}, ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if requestID != "" && s.deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordDuplicatePick()
		s.logger.Debug(ctx, "duplicate pick request, skipping", logger.String("requestID", requestID))
		return types.PickResponse{Duplicate: true, State: s.state()}, nil
	}

	picked, err := s.pick(ctx, manualID)
	if err != nil {
		if requestID != "" {
			s.deduper.Unrecord(ctx, requestID)
		}
		return types.PickResponse{}, err
	}
	return types.PickResponse{Picked: picked, State: s.state()}, nil
}

func (s *Service) pick(ctx context.Context, manualID *int) (bool, error) {
	if err := s.idle(); err != nil {
		return false, err
	}

	var manual *model.Candidate
	if manualID != nil {
		manual = &model.Candidate{ID: *manualID}
	}

	picked, err := s.engine.Pick(ctx, manual)
	switch {
	case errors.Is(err, draft.ErrInfeasible):
		metrics.RecordPickRejected(metrics.RejectInfeasible)
		s.persist(ctx)
		return false, err
	case errors.Is(err, draft.ErrCandidateUnavailable):
		metrics.RecordPickRejected(metrics.RejectUnavailable)
		return false, err
	case err != nil:
		return false, err
	}

	if picked {
		s.picks.Add(1)
		metrics.RecordPick(manual != nil)
		metrics.UpdateDraftProgress(s.engine.Status().Progress)
		s.persist(ctx)
	}
	return picked, nil
}

// Undo reverts the most recent pick.
func (s *Service) Undo(ctx context.Context) (types.UndoResponse, error) {
	if s.busy() {
		return types.UndoResponse{}, ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.Loaded() {
		return types.UndoResponse{}, draft.ErrNotLoaded
	}
	if err := s.idle(); err != nil {
		return types.UndoResponse{}, err
	}

	undone := s.engine.Undo()
	if undone {
		s.undos.Add(1)
		metrics.RecordUndo()
		metrics.UpdateDraftProgress(s.engine.Status().Progress)
		s.persist(ctx)
	}
	return types.UndoResponse{Undone: undone, State: s.state()}, nil
}

// Swap exchanges two rostered candidates. Only a complete draft can be
// edited this way.
func (s *Service) Swap(ctx context.Context, req types.SwapRequest) (types.DraftState, error) {
	if s.busy() {
		return types.DraftState{}, ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.Loaded() {
		return types.DraftState{}, draft.ErrNotLoaded
	}
	if err := s.idle(); err != nil {
		return types.DraftState{}, err
	}
	if !s.engine.Status().Complete {
		return types.DraftState{}, ErrDraftIncomplete
	}

	if err := s.engine.Swap(req.TeamA, req.CandidateA, req.TeamB, req.CandidateB); err != nil {
		return types.DraftState{}, err
	}
	s.swaps.Add(1)
	metrics.RecordSwap()
	s.persist(ctx)
	return s.state(), nil
}

// RequestSolve queues an auto draft of the remaining picks. maxAttempts <= 0
// uses the configured budget. The state reports Solving until the job ends.
func (s *Service) RequestSolve(ctx context.Context, maxAttempts int) (types.SolveAccepted, error) {
	if s.busy() {
		return types.SolveAccepted{}, ErrBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.SolveAccepted{}, ErrNotStarted
	}
	if !s.engine.Loaded() {
		return types.SolveAccepted{}, draft.ErrNotLoaded
	}
	if err := s.idle(); err != nil {
		return types.SolveAccepted{}, err
	}
	if maxAttempts <= 0 {
		maxAttempts = s.maxAttempts
	}

	job := queue.NewJob(s.session, maxAttempts)
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return types.SolveAccepted{}, fmt.Errorf("%w: %w", ErrEnqueue, err)
	}
	s.engine.SetSolving(true)
	s.solving.Store(&solvingView{state: s.state(), queue: s.queue, startedAt: s.startedAt})
	s.logger.Info(ctx, "auto draft queued",
		logger.String("jobID", job.ID),
		logger.Int("maxAttempts", maxAttempts))
	return types.SolveAccepted{JobID: job.ID, Status: solveStatusQueue}, nil
}

// Solve runs a queued auto draft. It implements worker.Solver.
func (s *Service) Solve(ctx context.Context, job queue.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer s.solving.Store(nil)

	if job.Session != s.session {
		return fmt.Errorf("%w: %s", ErrUnknownSession, job.Session)
	}

	start := time.Now()
	res := s.engine.SolveRemaining(ctx, job.MaxAttempts)
	elapsed := time.Since(start)

	outcome := metrics.SolveSuccess
	switch {
	case res.Success:
	case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
		outcome = metrics.SolveCancelled
	default:
		outcome = metrics.SolveExhausted
	}
	s.solves.Add(1)
	metrics.RecordSolve(outcome, res.Attempts, float64(elapsed.Milliseconds()))
	metrics.UpdateDraftProgress(s.engine.Status().Progress)
	s.persist(ctx)

	s.logger.Info(ctx, "auto draft finished",
		logger.String("jobID", job.ID),
		logger.String("outcome", outcome),
		logger.Int("attempts", res.Attempts),
		logger.Duration("elapsed", elapsed))
	return res.Err
}

// Risk ranks the pool for the team on turn. A non-empty query filters by
// name, case-insensitively.
func (s *Service) Risk(_ context.Context, query string) (types.RiskResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.Loaded() {
		return types.RiskResponse{}, draft.ErrNotLoaded
	}
	t, ok := s.engine.ActiveTeam()
	if !ok {
		return types.RiskResponse{}, ErrDraftComplete
	}
	return types.RiskResponse{
		Team:       t,
		TeamName:   s.engine.Teams()[t].Name,
		Candidates: s.engine.Risk(query),
	}, nil
}

// State returns the full view of the session. While an auto draft is
// pending it returns the view from when the job was queued, with Solving set.
func (s *Service) State(_ context.Context) types.DraftState {
	if v := s.solving.Load(); v != nil {
		return v.state
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Export writes the teams as CSV.
func (s *Service) Export(_ context.Context, w io.Writer) error {
	s.mu.Lock()
	teams, loaded := s.engine.Teams(), s.engine.Loaded()
	s.mu.Unlock()

	if !loaded {
		return draft.ErrNotLoaded
	}
	return roster.Write(w, teams)
}

// Template writes the CSV import template.
func (s *Service) Template(w io.Writer) error {
	return roster.WriteTemplate(w)
}

// GetStats returns service statistics for monitoring. Like State it does
// not wait for a running auto draft.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	if v := s.solving.Load(); v != nil {
		return s.stats(ctx, &v.state, v.queue, v.startedAt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state()
	if !s.started {
		return s.stats(ctx, &st, nil, time.Time{})
	}
	return s.stats(ctx, &st, s.queue, s.startedAt)
}

func (s *Service) stats(ctx context.Context, st *types.DraftState, q queue.Queue, startedAt time.Time) types.Stats {
	stats := types.Stats{
		Session:    s.session,
		Candidates: st.Candidates,
		Loaded:     st.Loaded,
		Cursor:     st.Status.Cursor,
		TotalPicks: len(st.Order),
		Progress:   st.Status.Progress,
		Complete:   st.Status.Complete,
		Solving:    st.Status.Solving,
		DedupeSize: s.deduper.Size(),
		Picks:      s.picks.Load(),
		Undos:      s.undos.Load(),
		Swaps:      s.swaps.Load(),
		Solves:     s.solves.Load(),
	}
	if q != nil {
		stats.QueueSize = q.Len(ctx)
		stats.UptimeSeconds = time.Since(startedAt).Seconds()
	}
	return stats
}

// idle rejects mutations while an auto draft is queued or running.
// busy reports a pending auto draft without waiting for the solver to
// release mu.
func (s *Service) busy() bool {
	return s.solving.Load() != nil
}

func (s *Service) idle() error {
	if s.engine.Status().Solving {
		return ErrBusy
	}
	return nil
}

func (s *Service) state() types.DraftState {
	st := types.DraftState{
		Session:    s.session,
		Loaded:     s.engine.Loaded(),
		Settings:   s.engine.Settings(),
		Teams:      s.engine.Teams(),
		Order:      s.engine.Order(),
		Pool:       s.engine.Pool(),
		Status:     s.engine.Status(),
		Candidates: len(s.engine.Candidates()),
	}
	if t, ok := s.engine.ActiveTeam(); ok {
		st.ActiveTeam = &t
	}
	return st
}

// persist saves a snapshot. Failures are logged and counted; the in-memory
// state stays authoritative. The save outlives a cancelled request.
func (s *Service) persist(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	if err := s.store.Save(ctx, s.session, s.engine.Snapshot()); err != nil {
		metrics.RecordSnapshotError()
		metrics.RecordErrorByComponent("repository", "save_failed")
		s.logger.Error(ctx, "failed to save snapshot", logger.String("session", s.session), logger.Error(err))
		return
	}
	metrics.RecordSnapshotSave(float64(time.Since(start).Microseconds()) / 1000)
}
