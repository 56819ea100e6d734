// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/app"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
)

// multipart parts above this size spill to temporary files
const formMemory = 8 << 20

type Handlers struct {
	Cmd   *app.TrekService
	Q     *app.QueryService
	Ready func(ctx context.Context) error

	// Dev adds the underlying error message to 5xx bodies.
	Dev            bool
	MaxUploadBytes int64
}

type errorBody struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { writeOK(w) })
	s.mux.Get("/readyz", h.ready)
	s.mux.Post("/new-trek", h.createTrek)
	s.mux.Get("/treks", h.listTreks)
	s.mux.Get("/trekdetails/{id}", h.getTrek)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps the error taxonomy onto a status. fallback is the public
// message for server errors.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		ve  *domain.ValidationError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid trek submission", Fields: ve.Fields})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid trek submission", Detail: err.Error()})
	case errors.As(err, &mbe):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "Upload too large"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Trek details not found"})
	case errors.Is(err, domain.ErrCorruptRecord):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("corrupt trek record")
		h.serverError(w, "Trek record is corrupt", err)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		h.serverError(w, fallback, err)
	}
}

func (h *Handlers) serverError(w http.ResponseWriter, msg string, err error) {
	body := errorBody{Error: msg}
	if h.Dev {
		body.Detail = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Server error"})
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "Not ready"})
			return
		}
	}
	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) createTrek(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}

	sub, cleanup, err := readSubmission(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		h.writeError(w, r, err, "Server error")
		return
	}

	out, err := h.Cmd.CreateTrek(r.Context(), sub)
	if err != nil {
		h.writeError(w, r, err, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// readSubmission accepts multipart or urlencoded bodies. Every file part is
// handed on, including unknown or repeated fields, so validation can name them.
func readSubmission(r *http.Request) (app.Submission, func(), error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(formMemory); err != nil {
			return app.Submission{}, nil, badForm(err)
		}
		form := r.MultipartForm
		cleanup := func() { _ = form.RemoveAll() }

		sub := app.NewSubmission(form.Value)
		for field, fhs := range form.File {
			for _, fh := range fhs {
				sub.Files = append(sub.Files, app.Upload{
					Field:    field,
					Filename: fh.Filename,
					Open:     func() (io.ReadCloser, error) { return fh.Open() },
				})
			}
		}
		return sub, cleanup, nil
	default:
		if err := r.ParseForm(); err != nil {
			return app.Submission{}, nil, badForm(err)
		}
		return app.NewSubmission(r.PostForm), nil, nil
	}
}

func badForm(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return err
	}
	return &domain.ValidationError{Fields: map[string]string{"body": "unreadable form: " + err.Error()}}
}

func (h *Handlers) listTreks(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListTreks(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Server error")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getTrek(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid trek id"})
		return
	}
	out, err := h.Q.GetTrek(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Server error")
		return
	}
	writeCached(w, r, out)
}
