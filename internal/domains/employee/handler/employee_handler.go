package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/employee/model"
	"vcard-backend/internal/domains/employee/service"
	"vcard-backend/internal/shared/response"
)

// Handler là JSON admin API của employee domain
// Tất cả routes nằm sau SessionGate
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{
		service: service,
	}
}

// handleError map domain error sang JSON envelope
func handleError(c *gin.Context, err error) {
	status, message, details := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Str("code", model.GetErrorCode(err)).
			Msg("employee request failed")
	}
	response.Error(c, status, message, details)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		handleError(c, model.NewInvalidID(raw))
		return uuid.Nil, false
	}
	return id, true
}

// ListEmployees - GET /api/v1/admin/employees?q=keyword
func (h *Handler) ListEmployees(c *gin.Context) {
	query := c.Query("q")

	employees, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Employees retrieved successfully", employees, &response.Meta{
		Total: len(employees),
		Query: strings.TrimSpace(query),
	})
}

// FindEmployees - GET /api/v1/admin/employees/search?field=email&value=a@x.com
func (h *Handler) FindEmployees(c *gin.Context) {
	employees, err := h.service.Find(c.Request.Context(), c.Query("field"), c.Query("value"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Employees retrieved successfully", employees, &response.Meta{
		Total: len(employees),
	})
}

// GetEmployee - GET /api/v1/admin/employees/:id
func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee retrieved successfully", e)
}

// CreateEmployee - POST /api/v1/admin/employees
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req model.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	e, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Employee created successfully", e)
}

// UpdateEmployee - PUT /api/v1/admin/employees/:id (full overwrite)
func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	e, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee updated successfully", e)
}

// DeleteEmployee - DELETE /api/v1/admin/employees/:id?confirm=true
func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := h.service.Delete(c.Request.Context(), id, confirmed); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Employee deleted successfully", gin.H{"id": id})
}

// ImportEmployees - POST /api/v1/admin/employees/import (multipart: file, skip_existing)
func (h *Handler) ImportEmployees(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "file is required (multipart/form-data)")
		return
	}

	log.Info().
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Msg("received bulk import request")

	f, err := file.Open()
	if err != nil {
		handleError(c, model.NewInvalidImportFile(err))
		return
	}
	defer f.Close()

	opts := model.ImportOptions{SkipExisting: c.PostForm("skip_existing") == "true"}
	result, err := h.service.BulkImport(c.Request.Context(), file.Filename, f, opts)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Bulk import completed successfully", result)
}

// ExportEmployees - GET /api/v1/admin/employees/export.xlsx
func (h *Handler) ExportEmployees(c *gin.Context) {
	f, err := h.service.ExportToExcel(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to write employees export")
	}
}

// UploadPhoto - POST /api/v1/admin/uploads/photo (multipart: file)
func (h *Handler) UploadPhoto(c *gin.Context) {
	data, err := readUpload(c, "file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	url, err := h.service.UploadPhoto(c.Request.Context(), data)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Photo uploaded successfully", gin.H{"url": url})
}

// readUpload đọc toàn bộ file của multipart field, giới hạn 5MB + 1 byte để service báo lỗi size
func readUpload(c *gin.Context, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%s is required (multipart/form-data)", field)
	}
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
}

const maxUploadBytes = 5 * 1024 * 1024
