// Package describe obtains a one-sentence description for every photo in a folder.
package describe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vistoria-app/vistoria/internal/metrics"
	"github.com/vistoria-app/vistoria/internal/models"
	"github.com/vistoria-app/vistoria/internal/providers"
)

// MalformedResponseText replaces the description when the API answered without content.
const MalformedResponseText = "Erro: Resposta da API não contém a estrutura esperada."

// maxErrorBodyRunes bounds the upstream body quoted in an "Erro na API" description.
const maxErrorBodyRunes = 300

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// IsAllowed reports whether filename has an image extension the fetcher describes.
func IsAllowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Fetcher describes images through a provider with bounded parallelism.
type Fetcher struct {
	provider    providers.Provider
	config      providers.Config
	concurrency int
	timeout     time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithConcurrency bounds the number of in-flight provider calls.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithTimeout bounds every provider call.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher returns a Fetcher. Empty prompt and max tokens take the defaults.
func NewFetcher(provider providers.Provider, config providers.Config, opts ...Option) *Fetcher {
	if config.Prompt == "" {
		config.Prompt = providers.DefaultPrompt
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = providers.DefaultMaxTokens
	}

	f := &Fetcher{
		provider:    provider,
		config:      config,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ListImages returns the describable files of dir in name order.
func ListImages(dir string) ([]models.UploadedImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var images []models.UploadedImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsAllowed(entry.Name()) {
			slog.Debug("Skipping file with unsupported extension", "file", entry.Name())
			continue
		}
		images = append(images, models.UploadedImage{
			Filename: entry.Name(),
			Path:     filepath.Join(dir, entry.Name()),
		})
	}
	return images, nil
}

// DescribeDir describes every allowed image in dir. Per-image failures become
// the description text; only a listing failure or cancellation is returned.
func (f *Fetcher) DescribeDir(ctx context.Context, dir string) ([]models.ImageDescription, error) {
	images, err := ListImages(dir)
	if err != nil {
		return nil, err
	}
	return f.DescribeImages(ctx, images)
}

// DescribeImages describes images in parallel. Output order matches input order.
func (f *Fetcher) DescribeImages(ctx context.Context, images []models.UploadedImage) ([]models.ImageDescription, error) {
	results := make([]models.ImageDescription, len(images))

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, img := range images {
		g.Go(func() error {
			results[i] = models.ImageDescription{
				Image:       img.Filename,
				Description: f.describe(ctx, img),
				Room:        models.RoomNotSpecified,
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Described images", "provider", f.provider.Name(), "model", f.config.Model, "count", len(results))
	return results, nil
}

func (f *Fetcher) describe(ctx context.Context, img models.UploadedImage) string {
	data, err := os.ReadFile(img.Path)
	if err != nil {
		slog.Error("Unable to read image", "file", img.Filename, "err", err)
		metrics.DescriptionsTotal.WithLabelValues(f.provider.Name(), metrics.OutcomeRequestFailed).Inc()
		return fmt.Sprintf("Erro na requisição: %v", err)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := f.provider.DescribeImage(ctx, f.config, providers.Image{
		Data:     data,
		MIMEType: http.DetectContentType(data),
	})
	metrics.DescriptionDuration.WithLabelValues(f.provider.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Warn("Image description failed", "file", img.Filename, "provider", f.provider.Name(), "err", err)
	}
	description, outcome := ErrorText(text, err)
	metrics.DescriptionsTotal.WithLabelValues(f.provider.Name(), outcome).Inc()
	return description
}

// ErrorText turns a provider result into the description shown in the report
// and the metrics outcome label.
func ErrorText(text string, err error) (string, string) {
	if err == nil {
		return strings.TrimSpace(text), metrics.OutcomeSuccess
	}

	var statusErr *providers.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Erro na API: %d - %s", statusErr.Code, truncate(strings.TrimSpace(statusErr.Body), maxErrorBodyRunes)), metrics.OutcomeAPIError
	case errors.Is(err, providers.ErrMalformedResponse):
		return MalformedResponseText, metrics.OutcomeMalformed
	default:
		return fmt.Sprintf("Erro na requisição: %v", err), metrics.OutcomeRequestFailed
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
