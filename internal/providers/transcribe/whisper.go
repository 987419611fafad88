package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"voxresumo/internal/domain"
)

type WhisperOptions struct {
	APIKey  string
	BaseURL string
	// ChatModel structures the raw transcript; defaults to gpt-4o-mini.
	ChatModel string
	// Client overrides the constructed client, for tests.
	Client *openai.Client
}

// Whisper runs a two-step pipeline on the OpenAI API: CreateTranscription
// for the raw text, then one chat completion that reshapes it into the
// structured Transcription document.
type Whisper struct {
	cli       *openai.Client
	chatModel string
}

const whisperDefaultChatModel = "gpt-4o-mini"

func NewWhisper(opts WhisperOptions) (*Whisper, error) {
	cli := opts.Client
	if cli == nil {
		if strings.TrimSpace(opts.APIKey) == "" {
			return nil, errors.New("openai api key is required")
		}
		cfg := openai.DefaultConfig(opts.APIKey)
		if strings.TrimSpace(opts.BaseURL) != "" {
			cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
		}
		cli = openai.NewClientWithConfig(cfg)
	}
	chatModel := strings.TrimSpace(opts.ChatModel)
	if chatModel == "" {
		chatModel = whisperDefaultChatModel
	}
	return &Whisper{cli: cli, chatModel: chatModel}, nil
}

func (w *Whisper) Transcribe(ctx context.Context, req Request) (*domain.Transcription, error) {
	if len(req.Media) == 0 {
		return nil, fmt.Errorf("%w: empty media", domain.ErrInvalidUpload)
	}
	audioReq := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(req.Media),
		FilePath: req.Filename,
	}
	if req.Language != "" {
		audioReq.Language = req.Language
	}
	audioResp, err := w.cli.CreateTranscription(ctx, audioReq)
	if err != nil {
		return nil, fmt.Errorf("%w: transcription: %v", domain.ErrProviderFailure, err)
	}
	raw := strings.TrimSpace(audioResp.Text)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty transcription result", domain.ErrProviderFailure)
	}
	return w.structure(ctx, raw)
}

const whisperStructurePrompt = `You receive the raw transcript of an audio recording. Produce a JSON object with these fields:
"title" (suggested title), "language" (detected language code), "topics" (array of topic tags),
"summary_short" (max 3 lines), "summary_detailed" (organized by topic),
"key_points" (array of actionable insights),
"transcript" (array of {"speaker","timestamp","text"} segments; attribute speakers as "Speaker A", "Speaker B" where distinguishable, timestamps as [MM:SS] or empty when unknown).
Respond with JSON only.`

func (w *Whisper) structure(ctx context.Context, transcript string) (*domain.Transcription, error) {
	resp, err := w.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: w.chatModel,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: whisperStructurePrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: structuring: %v", domain.ErrProviderFailure, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no completion choices", domain.ErrProviderFailure)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var result domain.Transcription
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", domain.ErrProviderFailure, err)
	}
	// The raw text survives even when the model forgets the segment list.
	if len(result.Transcript) == 0 {
		result.Transcript = []domain.TranscriptSegment{{Speaker: "Speaker A", Text: transcript}}
	}
	return &result, nil
}
