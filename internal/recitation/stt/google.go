package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Google transcribes through the Cloud Speech-to-Text v1 REST endpoint
// with an API key. Audio is sent inline, so it suits short recordings.
type Google struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewGoogle creates a provider.
func NewGoogle(baseURL, apiKey string) *Google {
	return &Google{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Name implements Provider.
func (g *Google) Name() string { return "google" }

type googleRequest struct {
	Config struct {
		LanguageCode string `json:"languageCode"`
		Encoding     string `json:"encoding,omitempty"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type googleResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe implements Provider.
func (g *Google) Transcribe(ctx context.Context, audio Audio) (Transcript, error) {
	if len(audio.Data) == 0 {
		return Transcript{}, ErrEmptyAudio
	}

	var body googleRequest
	body.Config.LanguageCode = googleLanguage(audio.Language)
	body.Config.Encoding = googleEncoding(audio.MIMEType)
	body.Audio.Content = base64.StdEncoding.EncodeToString(audio.Data)

	raw, err := json.Marshal(body)
	if err != nil {
		return Transcript{}, fmt.Errorf("encode request: %w", err)
	}

	reqURL := g.baseURL + "/v1/speech:recognize?" + url.Values{"key": {g.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(raw))
	if err != nil {
		return Transcript{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Transcript{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Transcript{}, fmt.Errorf("unexpected status: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var out googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Transcript{}, fmt.Errorf("decode response: %w", err)
	}

	// Results are consecutive portions of the audio.
	var parts []string
	var conf float64
	for _, r := range out.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, r.Alternatives[0].Transcript)
		conf += r.Alternatives[0].Confidence
	}
	if len(parts) == 0 {
		return Transcript{}, errors.New("google: no speech recognized")
	}
	return Transcript{
		Text:       strings.TrimSpace(strings.Join(parts, " ")),
		Confidence: conf / float64(len(parts)),
	}, nil
}

// googleLanguage adds a default region, which the v1 API requires for Arabic.
func googleLanguage(lang string) string {
	switch lang {
	case "", "ar":
		return "ar-SA"
	default:
		return lang
	}
}

// googleEncoding returns "" for containers the API detects from headers.
func googleEncoding(mime string) string {
	switch mime {
	case "audio/flac", "audio/x-flac":
		return "FLAC"
	case "audio/ogg", "audio/ogg; codecs=opus":
		return "OGG_OPUS"
	case "audio/webm", "audio/webm; codecs=opus":
		return "WEBM_OPUS"
	default:
		return ""
	}
}

var _ Provider = (*Google)(nil)
