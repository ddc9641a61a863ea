package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AssemblyAI transcribes through the AssemblyAI v2 REST API: upload, submit,
// then poll until the transcript completes.
type AssemblyAI struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	pollInterval time.Duration
}

// NewAssemblyAI creates a provider.
func NewAssemblyAI(baseURL, apiKey string, pollInterval time.Duration) *AssemblyAI {
	if pollInterval <= 0 {
		pollInterval = 1500 * time.Millisecond
	}
	return &AssemblyAI{
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		baseURL:      baseURL,
		apiKey:       apiKey,
		pollInterval: pollInterval,
	}
}

// Name implements Provider.
func (a *AssemblyAI) Name() string { return "assemblyai" }

type aaiTranscript struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"` // queued, processing, completed, error
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

// Transcribe implements Provider.
func (a *AssemblyAI) Transcribe(ctx context.Context, audio Audio) (Transcript, error) {
	if len(audio.Data) == 0 {
		return Transcript{}, ErrEmptyAudio
	}

	uploadURL, err := a.upload(ctx, audio.Data)
	if err != nil {
		return Transcript{}, err
	}

	var job aaiTranscript
	body := map[string]any{"audio_url": uploadURL, "language_code": audio.Language}
	if err := a.call(ctx, http.MethodPost, "/v2/transcript", body, &job); err != nil {
		return Transcript{}, fmt.Errorf("submit transcript: %w", err)
	}

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		switch job.Status {
		case "completed":
			return Transcript{Text: job.Text, Confidence: job.Confidence}, nil
		case "error":
			return Transcript{}, fmt.Errorf("assemblyai: %s", job.Error)
		}

		select {
		case <-ctx.Done():
			return Transcript{}, ctx.Err()
		case <-ticker.C:
		}

		if err := a.call(ctx, http.MethodGet, "/v2/transcript/"+job.ID, nil, &job); err != nil {
			return Transcript{}, fmt.Errorf("poll transcript: %w", err)
		}
	}
}

func (a *AssemblyAI) upload(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v2/upload", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", a.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := a.do(req, &out); err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	if out.UploadURL == "" {
		return "", errors.New("upload audio: empty upload_url")
	}
	return out.UploadURL, nil
}

func (a *AssemblyAI) call(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", a.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req, out)
}

func (a *AssemblyAI) do(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ Provider = (*AssemblyAI)(nil)
