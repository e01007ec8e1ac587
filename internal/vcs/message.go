package vcs

import (
	"context"
	"strings"

	"github.com/morozRed/revise/internal/llm"
)

// FallbackMessage is used when no commit message can be generated.
const FallbackMessage = "Automated changes made by revise"

// MessageWriter asks a generator flow for a one-line commit message.
type MessageWriter struct {
	Generator llm.Generator
	Flow      string
}

// Message returns a commit message for a revision of path in mode. It never
// fails: any generator problem yields FallbackMessage.
func (w *MessageWriter) Message(ctx context.Context, mode, path string) string {
	if w == nil || w.Generator == nil || strings.TrimSpace(w.Flow) == "" {
		return FallbackMessage
	}
	out, err := w.Generator.Generate(ctx, llm.Request{
		Flow:   w.Flow,
		Prompt: llm.RenderCommitRequest(mode, path),
	})
	if err != nil {
		return FallbackMessage
	}
	msg := strings.Trim(llm.FirstLine(llm.ExtractCode(out)), "`\"' ")
	if msg == "" {
		return FallbackMessage
	}
	return msg
}
