package inspection

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistoria-app/vistoria/internal/apperr"
	"github.com/vistoria-app/vistoria/internal/association"
	"github.com/vistoria-app/vistoria/internal/models"
	"github.com/vistoria-app/vistoria/internal/report"
)

type fakeDescriber struct {
	calls int
	err   error
}

func (f *fakeDescriber) DescribeImages(ctx context.Context, images []models.UploadedImage) ([]models.ImageDescription, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.ImageDescription, len(images))
	for i, img := range images {
		out[i] = models.ImageDescription{Image: img.Filename, Description: "Descrição de " + img.Filename, Room: models.RoomNotSpecified}
	}
	return out, nil
}

func metadata() models.InspectionMetadata {
	return models.InspectionMetadata{
		InspectionType: "saída",
		BuildingName:   "Residencial Ipê",
		Landlord:       "Ana",
		Tenant:         "Bruno",
		StartDate:      "2024-06-01T10:00:00.000Z",
	}
}

func writeImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return dir
}

func TestRun(t *testing.T) {
	dir := writeImages(t, "Cozinha_1_a.jpg", "Cozinha_1_b.jpg", "Sala_2_a.png", "notas.txt")
	describer := &fakeDescriber{}
	svc := NewService(describer, report.NewGenerator())

	result, err := svc.Run(context.Background(), Request{
		Dir:          dir,
		Rooms:        models.DeclaredRooms{{Label: "Cozinha", Token: "cozinha"}},
		Observations: models.ObservationMap{"Cozinha_1": "piso arranhado"},
		Metadata:     metadata(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, describer.calls)
	assert.True(t, bytes.HasPrefix(result.PDF, []byte("%PDF")))
	require.Len(t, result.Rooms, 2)
	assert.Equal(t, "Cozinha", result.Rooms[0].Room)
	require.Len(t, result.Rooms[0].Entries, 2)
	for _, entry := range result.Rooms[0].Entries {
		assert.Equal(t, "piso arranhado", entry.Observation)
	}
	assert.Equal(t, models.RoomNotSpecified, result.Rooms[1].Room)
	assert.Len(t, result.Descriptions, 3)
}

func TestRunRejectsBadFilenameBeforeDescribing(t *testing.T) {
	dir := writeImages(t, "Cozinha_1_a.jpg", "varanda.jpg")
	describer := &fakeDescriber{}

	_, err := NewService(describer, report.NewGenerator()).Run(context.Background(), Request{Dir: dir, Metadata: metadata()})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.ErrorIs(t, err, association.ErrInsufficientSegments)
	assert.Contains(t, err.Error(), "varanda.jpg")
	assert.Zero(t, describer.calls)
}

func TestRunInvalidStartDate(t *testing.T) {
	dir := writeImages(t, "Cozinha_1_a.jpg")
	meta := metadata()
	meta.StartDate = "2024-06-01"

	_, err := NewService(&fakeDescriber{}, report.NewGenerator()).Run(context.Background(), Request{Dir: dir, Metadata: meta})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.ErrorIs(t, err, report.ErrInvalidStartDate)
}

func TestRunLenientStartDate(t *testing.T) {
	dir := writeImages(t, "Cozinha_1_a.jpg")
	meta := metadata()
	meta.StartDate = ""

	result, err := NewService(&fakeDescriber{}, report.NewGenerator(report.WithLenientDates(true))).
		Run(context.Background(), Request{Dir: dir, Metadata: meta})
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDF)
}

func TestRunDescriberFailure(t *testing.T) {
	dir := writeImages(t, "Cozinha_1_a.jpg")

	_, err := NewService(&fakeDescriber{err: context.Canceled}, report.NewGenerator()).
		Run(context.Background(), Request{Dir: dir, Metadata: metadata()})

	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRender(t *testing.T) {
	descriptions := []models.ImageDescription{
		{Image: "Quarto_1_a.jpg", Description: "Cama de casal."},
		{Image: "Quarto_1_b.jpg", Description: "Armário embutido."},
	}

	result, err := NewService(&fakeDescriber{}, report.NewGenerator()).Render(Request{
		Dir:      t.TempDir(),
		Rooms:    models.DeclaredRooms{{Label: "Quarto Casal", Token: "quarto1"}},
		Metadata: metadata(),
	}, descriptions)
	require.NoError(t, err)

	require.Len(t, result.Rooms, 1)
	assert.Equal(t, "Quarto Casal", result.Rooms[0].Room)
	assert.Len(t, result.Rooms[0].Entries, 2)
}

func TestRenderInsufficientSegments(t *testing.T) {
	_, err := NewService(&fakeDescriber{}, report.NewGenerator()).Render(Request{Metadata: metadata()},
		[]models.ImageDescription{{Image: "Quarto_1_a.jpg"}, {Image: "sala.jpg"}})

	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"file": "sala.jpg"}, appErr.Details)
}
