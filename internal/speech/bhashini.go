package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BhashiniConfig configures the Bhashini inference pipeline.
type BhashiniConfig struct {
	URL          string
	APIKey       string
	UserID       string
	ASRServiceID string
	TTSServiceID string
	Language     string
	Timeout      time.Duration
}

// BhashiniProvider calls the Bhashini (Dhruva) inference pipeline for ASR and TTS.
type BhashiniProvider struct {
	cfg    BhashiniConfig
	client *http.Client
}

// NewBhashiniProvider creates a Bhashini provider.
func NewBhashiniProvider(cfg BhashiniConfig) (*BhashiniProvider, error) {
	if cfg.APIKey == "" || cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Language == "" {
		cfg.Language = "hi"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &BhashiniProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type pipelineRequest struct {
	PipelineTasks []pipelineTask `json:"pipelineTasks"`
	InputData     pipelineInput  `json:"inputData"`
}

type pipelineTask struct {
	TaskType string     `json:"taskType"`
	Config   taskConfig `json:"config"`
}

type taskConfig struct {
	Language     taskLanguage `json:"language"`
	ServiceID    string       `json:"serviceId"`
	AudioFormat  string       `json:"audioFormat,omitempty"`
	Gender       string       `json:"gender,omitempty"`
	SamplingRate int          `json:"samplingRate"`
}

type taskLanguage struct {
	SourceLanguage string `json:"sourceLanguage"`
}

type pipelineInput struct {
	Audio []audioContent `json:"audio,omitempty"`
	Input []textSource   `json:"input,omitempty"`
}

type audioContent struct {
	AudioContent string `json:"audioContent"`
}

type textSource struct {
	Source string `json:"source"`
}

type pipelineResponse struct {
	PipelineResponse []struct {
		Output []textSource   `json:"output"`
		Audio  []audioContent `json:"audio"`
	} `json:"pipelineResponse"`
}

// Name implements Provider.
func (p *BhashiniProvider) Name() string {
	return "bhashini"
}

// Transcribe implements Provider.
func (p *BhashiniProvider) Transcribe(ctx context.Context, audioBase64 string) (string, error) {
	resp, err := p.run(ctx, pipelineRequest{
		PipelineTasks: []pipelineTask{{
			TaskType: "asr",
			Config: taskConfig{
				Language:     taskLanguage{SourceLanguage: p.cfg.Language},
				ServiceID:    p.cfg.ASRServiceID,
				AudioFormat:  "wav",
				SamplingRate: 16000,
			},
		}},
		InputData: pipelineInput{Audio: []audioContent{{AudioContent: audioBase64}}},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	if len(resp.PipelineResponse) == 0 || len(resp.PipelineResponse[0].Output) == 0 {
		return "", nil
	}
	return resp.PipelineResponse[0].Output[0].Source, nil
}

// Synthesize implements Provider.
func (p *BhashiniProvider) Synthesize(ctx context.Context, text string) (string, error) {
	resp, err := p.run(ctx, pipelineRequest{
		PipelineTasks: []pipelineTask{{
			TaskType: "tts",
			Config: taskConfig{
				Language:     taskLanguage{SourceLanguage: p.cfg.Language},
				ServiceID:    p.cfg.TTSServiceID,
				Gender:       "female",
				SamplingRate: 22050,
			},
		}},
		InputData: pipelineInput{Input: []textSource{{Source: text}}},
	})
	if err != nil {
		return "", fmt.Errorf("text to speech failed: %w", err)
	}

	if len(resp.PipelineResponse) == 0 || len(resp.PipelineResponse[0].Audio) == 0 {
		return "", nil
	}
	return resp.PipelineResponse[0].Audio[0].AudioContent, nil
}

func (p *BhashiniProvider) run(ctx context.Context, body pipelineRequest) (*pipelineResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal pipeline request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create pipeline request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", p.cfg.APIKey)
	if p.cfg.UserID != "" {
		req.Header.Set("userID", p.cfg.UserID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pipeline request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("pipeline error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var out pipelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode pipeline response: %w", err)
	}
	return &out, nil
}
