package transform

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/valpere/tranhook/internal/protocol"
)

// GoogleTransform translates request text with the Google Cloud
// Translation API, using the request's language pair.
type GoogleTransform struct {
	credentials string
}

// NewGoogle builds the Google transform. credentials is an optional
// path to a service account key file; when empty the client falls back
// to application default credentials.
func NewGoogle(credentials string) *GoogleTransform {
	return &GoogleTransform{credentials: credentials}
}

func (t *GoogleTransform) Name() string {
	return "google"
}

func (t *GoogleTransform) Apply(ctx context.Context, req protocol.Request) (string, error) {
	if req.Text == "" {
		return "", nil
	}

	sourceTag, err := language.Parse(req.SourceOrDefault())
	if err != nil {
		return "", fmt.Errorf("invalid source language %q: %w", req.SourceOrDefault(), err)
	}
	targetTag, err := language.Parse(req.TargetOrDefault())
	if err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", req.TargetOrDefault(), err)
	}

	var opts []option.ClientOption
	if t.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(t.credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{req.Text}, targetTag, &translate.Options{
		Source: sourceTag,
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return translations[0].Text, nil
}
