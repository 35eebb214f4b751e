package script

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/option"
)

// ErrEmptyScript is returned when no usable script can be produced for a
// product. Callers skip the product rather than aborting their batch.
var ErrEmptyScript = errors.New("script generation produced no content")

// Writer produces short-form marketing video scripts for products. When a
// Cohere API key is configured the script comes from the Chat API; any LLM
// failure degrades to the rule-based template.
type Writer struct {
	client *cohereclient.Client
	model  string
}

func NewWriter(apiKey, model string, httpClient *http.Client) *Writer {
	w := &Writer{model: model}
	if apiKey != "" {
		opts := []option.RequestOption{option.WithToken(apiKey)}
		if httpClient != nil {
			opts = append(opts, option.WithHTTPClient(httpClient))
		}
		w.client = cohereclient.NewClient(opts...)
	}
	return w
}

func (w *Writer) Generate(ctx context.Context, product models.Product) (string, error) {
	if strings.TrimSpace(product.Name) == "" {
		return "", ErrEmptyScript
	}

	if w.client != nil {
		script, err := w.generateWithLLM(ctx, product)
		if err == nil {
			return script, nil
		}
		logger.Log.WithError(err).WithField("product", product.Name).Warn("LLM script generation failed, falling back to template")
	}

	return templateScript(product)
}

func (w *Writer) generateWithLLM(ctx context.Context, product models.Product) (string, error) {
	prompt := fmt.Sprintf(
		"Write a 30-second vertical video script promoting the product below. "+
			"Open with a hook, mention the price, end with a call to action. "+
			"Plain spoken text only, no scene directions.\n\n"+
			"Product: %s\nPrice: %s\nDescription: %s",
		product.Name, product.Price, product.Description,
	)

	model := w.model
	temperature := 0.7
	resp, err := w.client.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       &model,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", ErrEmptyScript
	}
	return strings.TrimSpace(resp.Text), nil
}

// templateScript is the deterministic fallback: hook, pitch, close.
func templateScript(product models.Product) (string, error) {
	name := strings.TrimSpace(product.Name)
	if name == "" {
		return "", ErrEmptyScript
	}

	description := strings.TrimSpace(product.Description)
	if runes := []rune(description); len(runes) > 180 {
		description = string(runes[:180])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stop scrolling - you need to see this %s!\n\n", name)
	if description != "" {
		fmt.Fprintf(&b, "%s\n\n", description)
	}
	if strings.TrimSpace(product.Price) != "" {
		fmt.Fprintf(&b, "And the best part? It's only %s.\n\n", product.Price)
	}
	fmt.Fprintf(&b, "Everyone is talking about the %s right now. Tap the link before it sells out!", name)

	return b.String(), nil
}
