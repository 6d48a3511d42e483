package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/valpere/tranhook/internal/protocol"
)

const myMemoryBaseURL = "https://api.mymemory.translated.net"

// MyMemoryTransform translates request text with the free MyMemory
// HTTP API. An email address raises the daily character quota.
type MyMemoryTransform struct {
	baseURL string
	email   string
	client  *http.Client
}

func NewMyMemory(email string) *MyMemoryTransform {
	return &MyMemoryTransform{
		baseURL: myMemoryBaseURL,
		email:   email,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *MyMemoryTransform) Name() string {
	return "mymemory"
}

func (t *MyMemoryTransform) Apply(ctx context.Context, req protocol.Request) (string, error) {
	if req.Text == "" {
		return "", nil
	}

	langPair := fmt.Sprintf("%s|%s", req.SourceOrDefault(), req.TargetOrDefault())

	apiURL := fmt.Sprintf("%s/get?q=%s&langpair=%s",
		t.baseURL,
		url.QueryEscape(req.Text),
		url.QueryEscape(langPair))

	if t.email != "" {
		apiURL += fmt.Sprintf("&de=%s", url.QueryEscape(t.email))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if mymemResp.ResponseStatus != 200 {
		return "", fmt.Errorf("API error: %s (%d)", mymemResp.ResponseDetails, mymemResp.ResponseStatus)
	}

	return mymemResp.ResponseData.TranslatedText, nil
}
