package pipeline

import (
	"errors"

	"github.com/piwi3910/DocPhoto/internal/export"
	"github.com/piwi3910/DocPhoto/internal/photo"
	"github.com/piwi3910/DocPhoto/internal/retouch"
)

// Error kinds a pipeline run can fail with. Match them with errors.Is.
var (
	ErrDecode       = photo.ErrDecode
	ErrRemote       = retouch.ErrRemote
	ErrRender       = export.ErrRender
	ErrInvalidInput = errors.New("invalid input")
)
