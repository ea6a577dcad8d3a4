package api

import (
	"bytes"
	"net/http"

	"github.com/sheexliies/ViperDraft/internal/domain/types"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// solveRequest is the optional body of POST /draft/solve.
type solveRequest struct {
	MaxAttempts int `json:"max_attempts"`
}

// DraftHandler handles the draft lifecycle.
type DraftHandler struct {
	deps   DraftDependencies
	logger logger.Logger
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(deps DraftDependencies, l logger.Logger) *DraftHandler {
	return &DraftHandler{deps: deps, logger: l}
}

// HandleGet handles GET /draft.
func (h *DraftHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.State(r.Context()))
}

// HandleLoad handles POST /draft. Omitted settings use the server defaults.
func (h *DraftHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	const op = "api.load_draft"
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req types.LoadRequest
	if err := decode(r, &req, true); err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	st, err := h.deps.Load(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandlePick handles POST /draft/pick.
func (h *DraftHandler) HandlePick(w http.ResponseWriter, r *http.Request) {
	const op = "api.pick"
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req types.PickRequest
	if err := decode(r, &req, true); err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	resp, err := h.deps.Pick(r.Context(), req.RequestID, req.CandidateID)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUndo handles POST /draft/undo.
func (h *DraftHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	const op = "api.undo"
	resp, err := h.deps.Undo(r.Context())
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSolve handles POST /draft/solve. The auto draft runs in the
// background; poll GET /draft until is_solving clears.
func (h *DraftHandler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.solve"
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req solveRequest
	if err := decode(r, &req, true); err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.MaxAttempts < 0 {
		fail(r.Context(), w, h.logger, op, NewKind(op, ErrBadRequest))
		return
	}
	resp, err := h.deps.RequestSolve(r.Context(), req.MaxAttempts)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// HandleSwap handles POST /draft/swap.
func (h *DraftHandler) HandleSwap(w http.ResponseWriter, r *http.Request) {
	const op = "api.swap"
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req types.SwapRequest
	if err := decode(r, &req, false); err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	st, err := h.deps.Swap(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleRisk handles GET /draft/risk?q=name.
func (h *DraftHandler) HandleRisk(w http.ResponseWriter, r *http.Request) {
	const op = "api.risk"
	resp, err := h.deps.Risk(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleExport handles GET /draft/export.
func (h *DraftHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	var buf bytes.Buffer
	if err := h.deps.Export(r.Context(), &buf); err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="DraftResult.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleReset handles POST /draft/reset.
func (h *DraftHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset"
	st, err := h.deps.Reset(r.Context())
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleClear handles DELETE /draft.
func (h *DraftHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear"
	if err := h.deps.ClearAll(r.Context()); err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
