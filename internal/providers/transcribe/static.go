package transcribe

import (
	"context"
	"fmt"
	"strings"

	"voxresumo/internal/domain"
)

// Static returns a deterministic canned result. Used in development and as
// the provider for tests that exercise the flow around the provider call.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Transcribe(ctx context.Context, req Request) (*domain.Transcription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Media) == 0 {
		return nil, fmt.Errorf("%w: empty media", domain.ErrInvalidUpload)
	}
	name := strings.TrimSuffix(req.Filename, ".mp3")
	if name == "" {
		name = "Recording"
	}
	return &domain.Transcription{
		Title:           name,
		Language:        "en",
		Topics:          []string{"general"},
		SummaryShort:    "Placeholder summary.",
		SummaryDetailed: "Placeholder detailed summary generated without a provider call.",
		KeyPoints:       []string{"No provider configured"},
		Transcript: []domain.TranscriptSegment{
			{Speaker: "Speaker A", Timestamp: "[00:00]", Text: "Placeholder transcript."},
		},
	}, nil
}
