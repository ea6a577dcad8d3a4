package api

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// CandidatesHandler handles candidate import requests.
type CandidatesHandler struct {
	deps   CandidateDependencies
	logger logger.Logger
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidateDependencies, l logger.Logger) *CandidatesHandler {
	return &CandidatesHandler{deps: deps, logger: l}
}

// HandleImport handles POST /candidates. A text/csv body is parsed as a
// roster sheet; anything else must be a JSON array of candidates. With
// ?preview=1 the list is parsed and validated but not imported.
func (h *CandidatesHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_candidates"
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	preview, err := previewParam(r)
	if err != nil {
		fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
		return
	}

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
			return
		}
		mediaType = mt
	}

	var resp any
	switch {
	case mediaType == "text/csv" && preview:
		resp, err = h.deps.PreviewCSV(r.Context(), r.Body)
	case mediaType == "text/csv":
		resp, err = h.deps.ImportCSV(r.Context(), r.Body)
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		var candidates []model.Candidate
		if err := decode(r, &candidates, false); err != nil {
			fail(r.Context(), w, h.logger, op, WrapKind(op, ErrBadRequest, err))
			return
		}
		if preview {
			resp, err = h.deps.Preview(r.Context(), candidates)
		} else {
			resp, err = h.deps.Import(r.Context(), candidates)
		}
	default:
		err = NewKind(mediaType, ErrUnsupported)
	}
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// previewParam reads the optional preview query flag.
func previewParam(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("preview")
	if v == "" {
		return false, nil
	}
	preview, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("preview: %w", err)
	}
	return preview, nil
}

// HandleTemplate handles GET /candidates/template.
func (h *CandidatesHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "api.candidates_template"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="DraftTemplate.csv"`)
	if err := h.deps.Template(w); err != nil {
		h.logger.Error(r.Context(), "template write failed", logger.String("op", op), logger.Error(err))
	}
}
