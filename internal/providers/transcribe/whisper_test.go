package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voxresumo/internal/domain"
)

// fakeOpenAI serves the two endpoints the Whisper provider touches.
func fakeOpenAI(t *testing.T, transcriptionStatus int, transcriptionText, chatContent string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/audio/transcriptions"):
			if transcriptionStatus != http.StatusOK {
				w.WriteHeader(transcriptionStatus)
				_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"text": transcriptionText})
		case strings.HasSuffix(r.URL.Path, "/chat/completions"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{{
					"message": map[string]any{"role": "assistant", "content": chatContent},
				}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewWhisperRequiresAPIKey(t *testing.T) {
	if _, err := NewWhisper(WhisperOptions{}); err == nil {
		t.Fatal("NewWhisper without key succeeded, want error")
	}
}

func TestWhisperTranscribe(t *testing.T) {
	structured := domain.Transcription{
		Title:        "Interview notes",
		Language:     "en",
		Topics:       []string{"hiring"},
		SummaryShort: "Short.",
		Transcript: []domain.TranscriptSegment{
			{Speaker: "Speaker A", Timestamp: "[00:00]", Text: "Hello."},
		},
	}
	inner, err := json.Marshal(structured)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	srv := fakeOpenAI(t, http.StatusOK, "Hello.", string(inner))
	defer srv.Close()

	w, err := NewWhisper(WhisperOptions{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewWhisper() error: %v", err)
	}
	got, err := w.Transcribe(context.Background(), Request{
		Media:    []byte("fake-audio"),
		MimeType: "audio/mpeg",
		Filename: "interview.mp3",
	})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if got.Title != structured.Title || len(got.Transcript) != 1 {
		t.Fatalf("Transcribe() = %+v, want %+v", got, structured)
	}
}

func TestWhisperTranscriptionFailure(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusBadGateway, "", "")
	defer srv.Close()

	w, err := NewWhisper(WhisperOptions{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewWhisper() error: %v", err)
	}
	_, err = w.Transcribe(context.Background(), Request{Media: []byte("x"), Filename: "a.mp3"})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("Transcribe() error = %v, want ErrProviderFailure", err)
	}
}

func TestWhisperFallsBackToRawSegment(t *testing.T) {
	// Structuring step returns JSON without transcript segments.
	srv := fakeOpenAI(t, http.StatusOK, "Raw words.", `{"title":"T","language":"en"}`)
	defer srv.Close()

	w, err := NewWhisper(WhisperOptions{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewWhisper() error: %v", err)
	}
	got, err := w.Transcribe(context.Background(), Request{Media: []byte("x"), Filename: "a.mp3"})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if len(got.Transcript) != 1 || got.Transcript[0].Text != "Raw words." {
		t.Fatalf("Transcript = %+v, want raw fallback segment", got.Transcript)
	}
}

func TestStaticProvider(t *testing.T) {
	s := NewStatic()
	got, err := s.Transcribe(context.Background(), Request{Media: []byte("x"), Filename: "demo.mp3"})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if got.Title != "demo" {
		t.Fatalf("Title = %q, want demo", got.Title)
	}
	if _, err := s.Transcribe(context.Background(), Request{}); !errors.Is(err, domain.ErrInvalidUpload) {
		t.Fatalf("Transcribe(empty) error = %v, want ErrInvalidUpload", err)
	}
}
