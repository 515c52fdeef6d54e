// Package retouch sends a portrait to a remote AI image editor to replace
// its background and tidy it up for a document photo.
package retouch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/DocPhoto/internal/model"
)

var (
	// ErrRemote wraps every failure of the remote editor.
	ErrRemote = errors.New("ai editor")
	// ErrNoImage is returned when the editor answers without an image.
	ErrNoImage = errors.New("ai editor returned no image")
	// ErrNoAPIKey is returned when no API key is configured anywhere.
	ErrNoAPIKey = errors.New("no API key configured")
)

// Editor edits an encoded image following a text instruction and returns
// the encoded result.
type Editor interface {
	Edit(ctx context.Context, image []byte, mimeType, prompt string) ([]byte, error)
}

// EditorFunc adapts a function to the Editor interface.
type EditorFunc func(ctx context.Context, image []byte, mimeType, prompt string) ([]byte, error)

func (f EditorFunc) Edit(ctx context.Context, image []byte, mimeType, prompt string) ([]byte, error) {
	return f(ctx, image, mimeType, prompt)
}

// BuildPrompt wraps the user's instructions with the fixed document-photo
// requirements. A blank instruction uses model.DefaultPrompt.
func BuildPrompt(instructions, backgroundHex string) string {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		instructions = model.DefaultPrompt
	}
	if backgroundHex == "" {
		backgroundHex = model.Backgrounds[0].Hex
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Instructions: %s.\n", strings.TrimSuffix(instructions, "."))
	b.WriteString("Mandatory: Detect the person in the image. Remove the existing background completely.\n")
	fmt.Fprintf(&b, "Replace the background with a solid flat color: %s.\n", backgroundHex)
	b.WriteString("Ensure the lighting on the person looks natural with the new background.\n")
	b.WriteString("Keep the person sharp and professional.\n")
	b.WriteString("Return the final edited image.")
	return b.String()
}
