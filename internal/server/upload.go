package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
)

// formMemory is the part of a multipart upload held in memory before
// spilling to temp files.
const formMemory = 8 << 20

// readUpload parses a multipart request into a job and the uploaded photo.
// The caller closes the returned file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (model.Job, multipart.File, error) {
	if mb := s.config.Server.MaxUploadMB; mb > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(mb)<<20)
	}
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return model.Job{}, nil, fmt.Errorf("upload larger than %d MB: %w", s.config.Server.MaxUploadMB, err)
		}
		return model.Job{}, nil, fmt.Errorf("%w: invalid multipart form: %v", pipeline.ErrInvalidInput, err)
	}

	retouch := false
	if v := r.FormValue("retouch"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return model.Job{}, nil, fmt.Errorf("%w: invalid retouch value %q", pipeline.ErrInvalidInput, v)
		}
		retouch = b
	}

	job, err := s.job(model.JobOptions{
		Photo:       r.FormValue("photo"),
		Sheet:       r.FormValue("sheet"),
		Orientation: r.FormValue("orientation"),
		Format:      r.FormValue("format"),
		Retouch:     retouch,
		Prompt:      r.FormValue("prompt"),
		Background:  r.FormValue("background"),
	})
	if err != nil {
		return job, nil, err
	}

	file, _, err := r.FormFile(imageField)
	if err != nil {
		return job, nil, fmt.Errorf("%w: missing %q file field: %v", pipeline.ErrInvalidInput, imageField, err)
	}
	return job, file, nil
}
