package handler

import (
	"math"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/card/model"
	"vcard-backend/internal/domains/card/service"
	"vcard-backend/internal/shared/middleware"
	"vcard-backend/internal/shared/response"
)

// Handler phục vụ public card (HTML, JSON, PNG, vCard) và admin export jobs
type Handler struct {
	renderer        *service.Renderer
	exporter        *service.Exporter
	jobs            *service.ExportJobs
	saver           service.ContactSaver
	autoExportDelay time.Duration
}

func NewHandler(
	renderer *service.Renderer,
	exporter *service.Exporter,
	jobs *service.ExportJobs,
	autoExportDelay time.Duration,
) *Handler {
	return &Handler{
		renderer:        renderer,
		exporter:        exporter,
		jobs:            jobs,
		saver:           service.UnavailableSaver{},
		autoExportDelay: autoExportDelay,
	}
}

func (h *Handler) render(c *gin.Context) (*model.CardView, bool) {
	view, err := h.renderer.Render(c.Request.Context(), c.Param("email"), service.ParseMode(c.Request.URL.Query()))
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("card render failed")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Error",
			"Status":  http.StatusInternalServerError,
			"Message": "The card could not be loaded. Please try again.",
		})
		return nil, false
	}
	if !view.Found {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Card not found", "View": view})
		return nil, false
	}
	return view, true
}

// ShowCard - GET /vcard/:email[?admin=true][&download=true]
// download=true lên lịch tải PNG sau autoExportDelay, chỉ khi record tồn tại
func (h *Handler) ShowCard(c *gin.Context) {
	view, ok := h.render(c)
	if !ok {
		return
	}

	cardPath := service.CardPath(view.Card.Email.Display)
	c.HTML(http.StatusOK, "card.html", gin.H{
		"Title":          view.Card.FullName,
		"View":           view,
		"Card":           view.Card,
		"PNGPath":        cardPath + "/card.png",
		"VCFPath":        cardPath + "/contact.vcf",
		"DelayMS":        h.autoExportDelay.Milliseconds(),
		"RefreshSeconds": int(math.Ceil(h.autoExportDelay.Seconds())),
	})
}

// DownloadPNG - GET /vcard/:email/card.png
func (h *Handler) DownloadPNG(c *gin.Context) {
	view, ok := h.render(c)
	if !ok {
		return
	}

	file, err := h.exporter.PNG(c.Request.Context(), view)
	if err != nil {
		log.Error().Err(err).Str("employee_id", view.Card.EmployeeID).Msg("png export failed")
		status, message, _ := model.MapErrorToHTTP(err)
		c.HTML(status, "error.html", gin.H{"Title": "Error", "Status": status, "Message": message})
		return
	}
	sendFile(c, file)
}

// DownloadContact - GET /vcard/:email/contact.vcf
func (h *Handler) DownloadContact(c *gin.Context) {
	view, ok := h.render(c)
	if !ok {
		return
	}

	out, err := h.exporter.Contact(c.Request.Context(), view, h.saver)
	if err != nil {
		status, message, _ := model.MapErrorToHTTP(err)
		c.HTML(status, "error.html", gin.H{"Title": "Error", "Status": status, "Message": message})
		return
	}
	if out.Native {
		c.Status(http.StatusNoContent)
		return
	}
	sendFile(c, out.File)
}

func sendFile(c *gin.Context, file *model.ExportFile) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// GetCard - GET /api/v1/vcard/:email
func (h *Handler) GetCard(c *gin.Context) {
	view, err := h.renderer.Render(c.Request.Context(), c.Param("email"), service.ParseMode(c.Request.URL.Query()))
	if err != nil {
		log.Error().Err(err).Msg("card render failed")
		response.Error(c, http.StatusInternalServerError, "Card could not be loaded", gin.H{"code": "INTERNAL_ERROR"})
		return
	}
	if !view.Found {
		response.Error(c, http.StatusNotFound, "Card not found", gin.H{"code": model.CodeCardNotFound})
		return
	}
	response.Success(c, http.StatusOK, "Card retrieved successfully", view)
}

// ScheduleExport - POST /api/v1/admin/employees/:id/export
func (h *Handler) ScheduleExport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid employee ID", gin.H{"code": "INVALID_EMPLOYEE_ID"})
		return
	}

	requestedBy := ""
	if s := middleware.CurrentSession(c); s != nil {
		requestedBy = s.Email
	}

	status, err := h.jobs.Schedule(c.Request.Context(), id, requestedBy)
	if err != nil {
		code, message, details := model.MapErrorToHTTP(err)
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("employee_id", id.String()).Msg("schedule export failed")
		}
		response.Error(c, code, message, details)
		return
	}
	response.Success(c, http.StatusAccepted, "Export scheduled", status)
}

// ExportStatus - GET /api/v1/admin/employees/:id/export
func (h *Handler) ExportStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid employee ID", gin.H{"code": "INVALID_EMPLOYEE_ID"})
		return
	}

	status, err := h.jobs.Status(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("employee_id", id.String()).Msg("export status lookup failed")
		response.Error(c, http.StatusServiceUnavailable, "Export status unavailable", gin.H{"code": "CACHE_UNAVAILABLE"})
		return
	}
	response.Success(c, http.StatusOK, "Export status", status)
}
