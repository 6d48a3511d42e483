package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valpere/tranhook/internal/logging"
	"github.com/valpere/tranhook/internal/placeholder"
	"github.com/valpere/tranhook/internal/postprocess"
	"github.com/valpere/tranhook/internal/protocol"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// OllamaTransform translates request text with a local Ollama model.
// Markdown requests get their code spans and HTML tags swapped for
// [PHn] markers before prompting so the model cannot mangle them, and
// the model's reply is cleaned of LLM artifacts before the markers are
// put back.
type OllamaTransform struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllama(baseURL, model string) *OllamaTransform {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaTransform{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (t *OllamaTransform) Name() string {
	return "ollama"
}

func (t *OllamaTransform) Apply(ctx context.Context, req protocol.Request) (string, error) {
	if req.Text == "" {
		return "", nil
	}

	text := req.Text
	markdown := req.Format == protocol.FormatMarkdown

	var protected placeholder.Protected
	if markdown {
		protected = placeholder.Protect(text)
		text = protected.Text
	}

	raw, err := t.generate(ctx, t.prompt(req.SourceOrDefault(), req.TargetOrDefault(), text, markdown))
	if err != nil {
		return "", err
	}

	out := postprocess.Clean(raw)
	if markdown {
		if missing := protected.Missing(out); len(missing) > 0 {
			logging.L().Warn("model dropped placeholder markers",
				"model", t.model, "missing", missing, "total", protected.Count())
		}
		out = protected.Restore(out)
	}

	return out, nil
}

func (t *OllamaTransform) prompt(source, target, text string, markdown bool) string {
	hint := ""
	if markdown {
		hint = "\n" + placeholder.InstructionHint()
	}
	return fmt.Sprintf(`Translate the following text from %s to %s.
Only respond with the translation, nothing else.%s

Text: "%s"

Translation:`, source, target, hint, text)
}

func (t *OllamaTransform) generate(ctx context.Context, prompt string) (string, error) {
	ollamaReq := map[string]interface{}{
		"model":  t.model,
		"prompt": prompt,
		"stream": false,
	}

	jsonData, err := json.Marshal(ollamaReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/generate", t.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return ollamaResp.Response, nil
}
