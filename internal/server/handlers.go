package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/photo"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
)

// imageField is the multipart field carrying the portrait.
const imageField = "image"

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type presetsResponse struct {
	PhotoSizes  []model.PhotoSize  `json:"photo_sizes"`
	SheetSizes  []model.SheetSize  `json:"sheet_sizes"`
	Backgrounds []model.Background `json:"backgrounds"`
	Formats     []string           `json:"formats"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presetsResponse{
		PhotoSizes:  model.AllPhotoSizes(),
		SheetSizes:  model.AllSheetSizes(),
		Backgrounds: model.Backgrounds,
		Formats:     []string{"jpg", "png", "pdf"},
	})
}

type layoutResponse struct {
	Job  model.Job  `json:"job"`
	Grid model.Grid `json:"grid"`
}

// handleLayout packs the requested photo size without an image.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts model.JobOptions
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&opts); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid request body: %v", pipeline.ErrInvalidInput, err))
		return
	}
	job, err := s.job(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Job: job, Grid: s.pipeline.Layout(job)})
}

// handleSheet renders an uploaded portrait onto a sheet and returns the
// encoded file.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	job, upload, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer upload.Close()

	res, err := s.pipeline.Run(r.Context(), upload, job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename(job)}))
	w.Header().Set("X-Copies", strconv.Itoa(res.Cells))
	w.Header().Set("X-Job-ID", job.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := res.WriteTo(w); err != nil {
		s.logger.Warn("writing sheet response", "job", job.ID, "err", err)
	}
}

// handleCrop returns the cropped working photo as PNG.
func (s *Server) handleCrop(w http.ResponseWriter, r *http.Request) {
	job, upload, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer upload.Close()

	img, _, err := photo.Decode(r.Context(), upload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cropped, _, err := s.pipeline.Prepare(r.Context(), img, job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := photo.EncodePNG(cropped)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", pipeline.ErrRender, err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Job-ID", job.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("writing crop response", "job", job.ID, "err", err)
	}
}

// job resolves request options on top of the configured defaults.
func (s *Server) job(opts model.JobOptions) (model.Job, error) {
	job, err := opts.Apply(s.config.NewJob())
	if err != nil {
		return job, fmt.Errorf("%w: %v", pipeline.ErrInvalidInput, err)
	}
	if err := job.Validate(); err != nil {
		return job, fmt.Errorf("%w: %v", pipeline.ErrInvalidInput, err)
	}
	return job, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps pipeline error kinds to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pipeline.ErrInvalidInput), errors.Is(err, pipeline.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrRemote):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
