package retouch

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/photo"
	"golang.org/x/time/rate"
)

// Service prepares a photo for the editor, calls it under a shared rate
// limit and decodes the answer. There is no retry: a failed call fails.
type Service struct {
	editor   Editor
	limiter  *rate.Limiter
	settings model.LayoutSettings
	timeout  time.Duration
}

// NewService wraps editor. requestsPerMin <= 0 disables rate limiting and
// timeout <= 0 leaves the caller's deadline in charge.
func NewService(editor Editor, settings model.LayoutSettings, requestsPerMin float64, timeout time.Duration) *Service {
	limit := rate.Inf
	if requestsPerMin > 0 {
		limit = rate.Limit(requestsPerMin / 60)
	}
	return &Service{
		editor:   editor,
		limiter:  rate.NewLimiter(limit, 1),
		settings: settings,
		timeout:  timeout,
	}
}

// Retouch sends img to the editor with the job's prompt and background and
// returns the edited image.
func (s *Service) Retouch(ctx context.Context, img image.Image, prompt string, bg model.Background) (image.Image, error) {
	upload, err := photo.PrepareForAI(ctx, img, s.settings)
	if err != nil {
		return nil, fmt.Errorf("preparing ai upload: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limit: %w", err)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.editor.Edit(callCtx, upload, photo.AIMIMEType, BuildPrompt(prompt, bg.Hex))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}

	edited, _, err := photo.DecodeBytes(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable result: %w", ErrRemote, err)
	}
	return edited, nil
}
