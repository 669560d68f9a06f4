package httpapi

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// multipartMemory is how much of a parsed upload stays in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

// defaultRunsLimit matches the CLI default for history listings.
const defaultRunsLimit = 20

type errorResponse struct {
	Error string `json:"error"`
}

// runResponse is the wire form of a stored run.
type runResponse struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Process           string    `json:"process"`
	DocumentsUploaded int       `json:"documents_uploaded"`
	Issues            int       `json:"issues"`
}

func toRunResponse(run domain.Run) runResponse {
	return runResponse{
		ID:                run.ID,
		CreatedAt:         run.CreatedAt,
		Process:           run.Process,
		DocumentsUploaded: run.DocumentsUploaded,
		Issues:            run.Issues,
	}
}

// analyzeRequest is the validated non-file portion of an analyze upload.
type analyzeRequest struct {
	UseLLM bool
	TopK   int `validate:"omitempty,gte=1,lte=10"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // Temp cleanup, nothing to do on failure

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, r, http.StatusBadRequest, "no documents uploaded, use multipart field 'files'")
		return
	}

	req, err := s.parseAnalyzeRequest(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	paths, err := s.saveUploads(files)
	if err != nil {
		logger.Error().Err(err).Msg("failed to save uploads")
		s.writeError(w, r, http.StatusInternalServerError, "could not save uploads")
		return
	}

	result, err := s.ports.Analysis.AnalyzeBatch(ctx, paths, domain.AnalyzeOptions{
		UseLLM: req.UseLLM,
		TopK:   req.TopK,
	})
	if err != nil {
		if result == nil {
			s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		// Partial batch: respond with what was analyzed.
		logger.Warn().Err(err).Msg("batch partially failed")
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.ports.Runs.List(r.Context(), limit)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to list runs")
		s.writeError(w, r, http.StatusInternalServerError, "could not list runs")
		return
	}

	out := make([]runResponse, len(runs))
	for i, run := range runs {
		out[i] = toRunResponse(run)
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.ports.Runs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, r, http.StatusNotFound, fmt.Sprintf("no run with id %q", id))
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load run")
		s.writeError(w, r, http.StatusInternalServerError, "could not load run")
		return
	}
	s.writeJSON(w, r, http.StatusOK, toRunResponse(*run))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) parseAnalyzeRequest(r *http.Request) (analyzeRequest, error) {
	var req analyzeRequest

	if v := r.FormValue("use_llm"); v != "" {
		useLLM, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("invalid use_llm value %q", v)
		}
		req.UseLLM = useLLM
	}
	if v := r.FormValue("top_k"); v != "" {
		topK, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid top_k value %q", v)
		}
		req.TopK = topK
	}

	if err := s.validate.Struct(&req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return req, fmt.Errorf("top_k must be between 1 and 10, failed on '%s' tag", errs[0].Tag())
		}
		return req, err
	}
	return req, nil
}

// saveUploads writes every uploaded file into the upload folder as
// "<uuid hex>_<base name>" and returns the local paths in field order.
func (s *Server) saveUploads(files []*multipart.FileHeader) ([]string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, header := range files {
		path, err := s.saveUpload(header)
		if err != nil {
			return nil, fmt.Errorf("save %s: %w", header.Filename, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Server) saveUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close() //nolint:errcheck // Read-side close, error not actionable

	name := newUploadID() + "_" + filepath.Base(header.Filename)
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close() //nolint:errcheck // Write error takes precedence
		return "", err
	}
	return path, dst.Close()
}

func newUploadID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}
