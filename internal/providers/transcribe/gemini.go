package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voxresumo/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini calls the generateContent endpoint with the media inlined as
// base64 and a JSON response schema, so the model answers directly in the
// Transcription shape.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const (
	geminiDefaultTimeout = 120 * time.Second
	geminiDefaultModel   = "gemini-2.5-flash"
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

const geminiSystemInstruction = `You are an assistant specialized in transcribing and summarizing audio and video.
Rules:
1. Never invent words or content.
2. If a passage is inaudible, write "[inaudible]".
3. Produce a faithful, objective transcription.
4. Summaries must be clear and organized by topic.
5. Never retain the user's media or personal data beyond this response.
6. If the file is invalid or contains no audio, report that it could not be processed.`

const geminiPrompt = `Analyze this audio file.
1. Detect the language automatically.
2. Identify different speakers (Speaker A, Speaker B, etc.).
3. Perform a full transcription.
4. Create a short summary (max 3 lines).
5. Create a detailed summary organized by topic.
6. Extract key actionable insights/points.
7. Suggest a relevant title and topic tags.
8. Format timestamps as [MM:SS].

Return ONLY valid JSON matching the schema provided.`

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature      float64         `json:"temperature,omitempty"`
	CandidateCount   int             `json:"candidateCount,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// geminiResponseSchema pins the property order so the streamed JSON is
// stable across calls.
var geminiResponseSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "title": {"type": "STRING"},
    "language": {"type": "STRING"},
    "topics": {"type": "ARRAY", "items": {"type": "STRING"}},
    "summary_short": {"type": "STRING"},
    "summary_detailed": {"type": "STRING"},
    "key_points": {"type": "ARRAY", "items": {"type": "STRING"}},
    "transcript": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "speaker": {"type": "STRING"},
          "timestamp": {"type": "STRING"},
          "text": {"type": "STRING"}
        },
        "propertyOrdering": ["speaker", "timestamp", "text"]
      }
    }
  },
  "propertyOrdering": ["title", "language", "topics", "summary_short", "summary_detailed", "key_points", "transcript"]
}`)

func NewGemini(opts GeminiOptions) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &Gemini{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *Gemini) Transcribe(ctx context.Context, req Request) (*domain.Transcription, error) {
	if len(req.Media) == 0 {
		return nil, fmt.Errorf("%w: empty media", domain.ErrInvalidUpload)
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "audio/mp3"
	}
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(req.Media),
				}},
				{Text: geminiPrompt},
			},
		}},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: geminiSystemInstruction}},
		},
		GenerationConfig: &geminiGenerationConfig{
			CandidateCount:   1,
			ResponseMimeType: "application/json",
			ResponseSchema:   geminiResponseSchema,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrProviderFailure, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrProviderFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: gemini status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrProviderFailure, err)
	}
	text := extractGeminiText(out)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrProviderFailure)
	}
	var result domain.Transcription
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", domain.ErrProviderFailure, err)
	}
	return &result, nil
}

func (g *Gemini) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func extractGeminiText(resp geminiResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text
			}
		}
	}
	return ""
}
