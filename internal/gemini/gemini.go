package gemini

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vistoria-app/vistoria/internal/providers"
)

// Gemini describes images with Google Gemini
type Gemini struct {
	apiKey string
	opts   []option.ClientOption
}

// New returns a new Gemini provider. Extra client options are appended after the API key.
func New(apiKey string, opts ...option.ClientOption) *Gemini {
	return &Gemini{apiKey: apiKey, opts: opts}
}

func (g *Gemini) Name() string { return "gemini" }

// DescribeImage sends the prompt and the image blob in a single request
func (g *Gemini) DescribeImage(ctx context.Context, config providers.Config, image providers.Image) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	format, data, err := prepareImage(image)
	if err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)...)
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(config.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(config.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", providers.ErrMalformedResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content", providers.ErrMalformedResponse)
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("%w: unexpected part type", providers.ErrMalformedResponse)
}

// Image formats Gemini accepts as inline data.
var supportedFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"webp": true,
	"heic": true,
	"heif": true,
}

// prepareImage returns the format name and bytes to send. Formats Gemini
// does not take, such as GIF, are re-encoded as PNG.
func prepareImage(image providers.Image) (string, []byte, error) {
	format := imageFormat(image.MIMEType)
	if supportedFormats[format] {
		return format, image.Data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(image.Data), imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", nil, fmt.Errorf("failed to encode image as png: %w", err)
	}
	return "png", buf.Bytes(), nil
}

// imageFormat turns "image/png" into the "png" format name genai.ImageData expects.
func imageFormat(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	if !strings.HasPrefix(mimeType, "image/") {
		return "jpeg"
	}
	return strings.TrimPrefix(mimeType, "image/")
}
