package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"voxresumo/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func geminiBody(t *testing.T, result domain.Transcription) string {
	t.Helper()
	inner, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal inner: %v", err)
	}
	outer := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": string(inner)}},
			},
		}},
	}
	raw, err := json.Marshal(outer)
	if err != nil {
		t.Fatalf("marshal outer: %v", err)
	}
	return string(raw)
}

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	if _, err := NewGemini(GeminiOptions{}); err == nil {
		t.Fatal("NewGemini without key succeeded, want error")
	}
}

func TestGeminiTranscribe(t *testing.T) {
	want := domain.Transcription{
		Title:        "Weekly sync",
		Language:     "pt",
		Topics:       []string{"planning"},
		SummaryShort: "Short.",
		KeyPoints:    []string{"ship it"},
		Transcript: []domain.TranscriptSegment{
			{Speaker: "Speaker A", Timestamp: "[00:05]", Text: "Bom dia."},
		},
	}

	var captured *http.Request
	var capturedBody []byte
	g, err := NewGemini(GeminiOptions{
		APIKey: "test-key",
		Model:  "gemini-2.5-flash",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			captured = r
			capturedBody, _ = io.ReadAll(r.Body)
			return jsonResponse(http.StatusOK, geminiBody(t, want)), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGemini() error: %v", err)
	}

	got, err := g.Transcribe(context.Background(), Request{
		Media:    []byte("fake-audio"),
		MimeType: "audio/mpeg",
		Filename: "sync.mp3",
	})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if got.Title != want.Title || got.Language != want.Language {
		t.Fatalf("Transcribe() = %+v, want %+v", got, want)
	}
	if len(got.Transcript) != 1 || got.Transcript[0].Speaker != "Speaker A" {
		t.Fatalf("Transcript = %+v", got.Transcript)
	}

	if captured.Header.Get("x-goog-api-key") != "test-key" {
		t.Fatalf("api key header = %q", captured.Header.Get("x-goog-api-key"))
	}
	if !strings.Contains(captured.URL.Path, "models/gemini-2.5-flash:generateContent") {
		t.Fatalf("endpoint = %s", captured.URL.Path)
	}

	var sent geminiRequest
	if err := json.Unmarshal(capturedBody, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if len(sent.Contents) != 1 || len(sent.Contents[0].Parts) != 2 {
		t.Fatalf("request parts = %+v", sent.Contents)
	}
	if sent.Contents[0].Parts[0].InlineData == nil || sent.Contents[0].Parts[0].InlineData.MimeType != "audio/mpeg" {
		t.Fatalf("inline data = %+v", sent.Contents[0].Parts[0].InlineData)
	}
	if sent.GenerationConfig == nil || sent.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("generation config = %+v", sent.GenerationConfig)
	}
}

func TestGeminiTranscribeErrors(t *testing.T) {
	tests := []struct {
		name      string
		transport roundTripFunc
	}{
		{
			name: "network failure",
			transport: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name: "http error status",
			transport: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusForbidden, `{"error":"denied"}`), nil
			},
		},
		{
			name: "empty candidates",
			transport: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"candidates":[]}`), nil
			},
		},
		{
			name: "malformed inner payload",
			transport: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"not json"}]}}]}`), nil
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGemini(GeminiOptions{
				APIKey:     "test-key",
				HTTPClient: &http.Client{Transport: tc.transport},
			})
			if err != nil {
				t.Fatalf("NewGemini() error: %v", err)
			}
			_, err = g.Transcribe(context.Background(), Request{Media: []byte("x"), MimeType: "audio/mpeg"})
			if !errors.Is(err, domain.ErrProviderFailure) {
				t.Fatalf("Transcribe() error = %v, want ErrProviderFailure", err)
			}
		})
	}
}

func TestGeminiRejectsEmptyMedia(t *testing.T) {
	g, err := NewGemini(GeminiOptions{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewGemini() error: %v", err)
	}
	if _, err := g.Transcribe(context.Background(), Request{}); !errors.Is(err, domain.ErrInvalidUpload) {
		t.Fatalf("Transcribe(empty) error = %v, want ErrInvalidUpload", err)
	}
}
