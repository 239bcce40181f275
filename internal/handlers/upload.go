package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistoria-app/vistoria/internal/apperr"
	"github.com/vistoria-app/vistoria/internal/inspection"
	"github.com/vistoria-app/vistoria/internal/models"
	"github.com/vistoria-app/vistoria/internal/upload"
)

const errNoFile = "Nenhum arquivo enviado"

// uploadForm holds the inspection fields of the upload form.
type uploadForm struct {
	InspectionType      string `form:"tipo_vistoria"`
	BuildingName        string `form:"nome_edificio"`
	Landlord            string `form:"locador"`
	Tenant              string `form:"locatario"`
	StartDate           string `form:"data_inicio"`
	Address             string `form:"endereco_imovel"`
	UnitNumber          string `form:"numero_apartamento"`
	InspectorName       string `form:"nome_vistoriador"`
	GeneralObservations string `form:"observacoes_gerais"`
	Observations        string `form:"observacoes"`
	Rooms               string `form:"rooms"`
}

func (f uploadForm) metadata() models.InspectionMetadata {
	return models.InspectionMetadata{
		InspectionType:      f.InspectionType,
		BuildingName:        f.BuildingName,
		Landlord:            f.Landlord,
		Tenant:              f.Tenant,
		StartDate:           f.StartDate,
		Address:             f.Address,
		UnitNumber:          f.UnitNumber,
		InspectorName:       f.InspectorName,
		GeneralObservations: f.GeneralObservations,
	}.WithDefaults()
}

// HandleUpload saves the uploaded photos into a private workspace, runs the
// report pipeline and returns the PDF as an attachment. The workspace is
// removed before the handler returns.
func (h *Handler) HandleUpload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.writeError(c, multipartError(err))
		return
	}
	defer func() { _ = form.RemoveAll() }()

	files, ok := form.File["file"]
	if !ok || len(files) == 0 {
		h.writeError(c, apperr.BadRequest(errNoFile))
		return
	}

	var fields uploadForm
	if err := c.ShouldBind(&fields); err != nil {
		h.writeError(c, apperr.Wrap(apperr.KindBadRequest, "Formulário inválido", err))
		return
	}

	rooms, err := models.ParseDeclaredRooms(fields.Rooms)
	if err != nil {
		h.writeError(c, apperr.Wrap(apperr.KindBadRequest, "Campo 'rooms' inválido", err).
			WithDetails(gin.H{"field": "rooms"}))
		return
	}
	observations, err := models.ParseObservations(fields.Observations)
	if err != nil {
		h.writeError(c, apperr.Wrap(apperr.KindBadRequest, "Campo 'observacoes' inválido", err).
			WithDetails(gin.H{"field": "observacoes"}))
		return
	}

	ws, err := upload.NewWorkspace(h.uploadDir)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer ws.Cleanup()

	saved, skipped, err := ws.SaveAll(files)
	if err != nil {
		h.writeError(c, err)
		return
	}
	loggerFrom(c).Info("Saved uploaded images", "saved", len(saved), "skipped", len(skipped))

	result, err := h.pipeline.Run(c.Request.Context(), inspection.Request{
		Dir:          ws.Dir,
		Rooms:        rooms,
		Observations: observations,
		Metadata:     fields.metadata(),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("vistoria_%s.pdf", h.now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

func multipartError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return apperr.Wrap(apperr.KindTooLarge,
			fmt.Sprintf("Upload excede o limite de %d bytes", maxErr.Limit), err)
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return apperr.Wrap(apperr.KindBadRequest, errNoFile, err)
	default:
		return apperr.Wrap(apperr.KindBadRequest, "Requisição multipart inválida", err)
	}
}
