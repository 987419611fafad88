// Package transcribe holds the generative-AI providers that turn an
// uploaded media file into a structured transcript and summary.
package transcribe

import (
	"context"

	"voxresumo/internal/domain"
)

// Request is one media file to transcribe. Duration is not carried here:
// admission control has already run by the time a provider is invoked.
type Request struct {
	Media    []byte
	MimeType string
	Filename string
	// Language is an optional hint; providers auto-detect when empty.
	Language string
}

// Provider transcribes and summarizes one media file. Implementations do
// not retry; a failed call surfaces as domain.ErrProviderFailure and the
// caller charges no quota for it.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*domain.Transcription, error)
}

// Name constants reported in logs and project metadata.
const (
	ProviderNameGemini  = "gemini"
	ProviderNameWhisper = "whisper"
	ProviderNameStatic  = "static"
)
