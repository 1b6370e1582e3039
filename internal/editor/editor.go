// Package editor applies free-text edit requests to a CV document. Edits are
// best effort: any failure leaves the document exactly as it was.
package editor

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/prompts"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
)

// Notices shown to the user alongside the returned document.
const (
	MessageApplied     = "Your CV has been updated."
	MessageUnavailable = "The AI assistant is not available right now. Your CV was left unchanged."
	MessageFailed      = "I couldn't apply that change, so your CV was left unchanged. Please try rephrasing your request."
	MessageEmpty       = "Tell me what you would like to change in your CV."
)

// Result is the outcome of an edit request. Document is never nil.
type Result struct {
	Document *types.CVDocument
	Applied  bool
	Message  string
}

// Editor holds the LLM client. It keeps no conversation history.
type Editor struct {
	client llm.Client
	logger *slog.Logger
}

// NewEditor creates an Editor backed by client.
func NewEditor(client llm.Client, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{client: client, logger: logger}
}

// ApplyEdit asks the LLM to apply instruction to current. It never returns an
// error; on failure the result carries a copy of current and a notice.
func (e *Editor) ApplyEdit(ctx context.Context, instruction string, current *types.CVDocument, templateID string) Result {
	if current == nil {
		current = &types.CVDocument{}
	}
	unchanged := func(msg string) Result {
		return Result{Document: current.Clone(), Message: msg}
	}

	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return unchanged(MessageEmpty)
	}
	if !e.client.Available() {
		return unchanged(MessageUnavailable)
	}

	input := current.Clone()
	input.Normalize()
	cvJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		e.logger.Error("edit: failed to encode CV", "error", err)
		return unchanged(MessageFailed)
	}

	prompt := prompts.Format(prompts.MustGet("editor.json", "apply-edit"), map[string]string{
		"Instruction": instruction,
		"TemplateID":  templateID,
		"CV":          string(cvJSON),
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		e.logger.Warn("edit: LLM call failed", "error", err)
		return unchanged(MessageFailed)
	}

	var edited types.CVDocument
	if err := schemas.Decode(schemas.CVDocument, llm.CleanJSONBlock(raw), &edited); err != nil {
		e.logger.Warn("edit: unusable LLM response", "error", err)
		return unchanged(MessageFailed)
	}

	edited.ProfilePictureURL = input.ProfilePictureURL
	edited.ShowProfilePicture = input.ShowProfilePicture
	edited.Normalize()

	return Result{Document: &edited, Applied: true, Message: MessageApplied}
}
