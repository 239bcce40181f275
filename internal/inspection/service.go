// Package inspection runs the report pipeline: describe, associate, group, render.
package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vistoria-app/vistoria/internal/apperr"
	"github.com/vistoria-app/vistoria/internal/association"
	"github.com/vistoria-app/vistoria/internal/describe"
	"github.com/vistoria-app/vistoria/internal/grouping"
	"github.com/vistoria-app/vistoria/internal/metrics"
	"github.com/vistoria-app/vistoria/internal/models"
	"github.com/vistoria-app/vistoria/internal/report"
)

// Describer produces descriptions for saved images in input order.
type Describer interface {
	DescribeImages(ctx context.Context, images []models.UploadedImage) ([]models.ImageDescription, error)
}

// Renderer turns grouped rooms and metadata into a document.
type Renderer interface {
	Generate(data report.Data) ([]byte, error)
}

// Request is one report job over the images saved in Dir.
type Request struct {
	Dir          string
	Rooms        models.DeclaredRooms
	Observations models.ObservationMap
	Metadata     models.InspectionMetadata
}

// Result is a rendered report and the data it was built from.
type Result struct {
	PDF          []byte
	Descriptions []models.ImageDescription
	Rooms        models.GroupedRooms
}

type Service struct {
	describer Describer
	renderer  Renderer
}

func NewService(describer Describer, renderer Renderer) *Service {
	return &Service{describer: describer, renderer: renderer}
}

// Run describes every allowed image in req.Dir and renders the report.
// Filenames are validated before any description is requested.
func (s *Service) Run(ctx context.Context, req Request) (result *Result, err error) {
	start := time.Now()
	defer func() { observe(start, err) }()

	images, err := describe.ListImages(req.Dir)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list uploaded images", err)
	}

	for _, img := range images {
		if _, err := association.RoomKey(img.Filename); err != nil {
			return nil, invalidFilename(img.Filename, err)
		}
	}

	slog.Info("Describing uploaded images", "count", len(images))
	descriptions, err := s.describer.DescribeImages(ctx, images)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to describe images", err)
	}

	return s.render(req, descriptions)
}

// Render builds the report from descriptions obtained earlier.
func (s *Service) Render(req Request, descriptions []models.ImageDescription) (result *Result, err error) {
	start := time.Now()
	defer func() { observe(start, err) }()

	return s.render(req, descriptions)
}

func (s *Service) render(req Request, descriptions []models.ImageDescription) (*Result, error) {
	associated, err := association.Associate(descriptions, req.Rooms, req.Observations)
	if err != nil {
		var name string
		for _, d := range descriptions {
			if _, keyErr := association.RoomKey(d.Image); keyErr != nil {
				name = d.Image
				break
			}
		}
		return nil, invalidFilename(name, err)
	}

	grouped := grouping.Group(associated)
	for _, d := range associated {
		if d.Room == models.RoomNotSpecified {
			metrics.UnmatchedImagesTotal.Inc()
		}
	}

	pdf, err := s.renderer.Generate(report.Data{
		Rooms:    grouped,
		Metadata: req.Metadata,
		ImageDir: req.Dir,
	})
	if errors.Is(err, report.ErrInvalidStartDate) {
		return nil, apperr.Wrap(apperr.KindValidation,
			fmt.Sprintf("Data de início inválida: %q (formato esperado AAAA-MM-DDTHH:MM:SS.sssZ)", req.Metadata.StartDate), err).
			WithDetails(map[string]string{"field": "data_inicio"})
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to generate report", err)
	}

	slog.Info("Inspection report ready", "rooms", len(grouped), "entries", len(associated), "bytes", len(pdf))
	return &Result{PDF: pdf, Descriptions: associated, Rooms: grouped}, nil
}

func invalidFilename(name string, err error) *apperr.Error {
	return apperr.Wrap(apperr.KindValidation,
		fmt.Sprintf("Nome de arquivo inválido: %s (esperado Comodo_Numero_...)", name), err).
		WithDetails(map[string]string{"file": name})
}

func observe(start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case apperr.Is(err, apperr.KindValidation), apperr.Is(err, apperr.KindBadRequest):
		outcome = metrics.OutcomeClientError
	default:
		outcome = metrics.OutcomeError
	}
	metrics.ReportsTotal.WithLabelValues(outcome).Inc()
	metrics.ReportDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
