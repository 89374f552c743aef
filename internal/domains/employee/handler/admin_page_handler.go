package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/employee/model"
	"vcard-backend/internal/domains/employee/service"
	"vcard-backend/internal/shared/middleware"
)

// PageHandler render các admin HTML pages (dashboard, form, bulk upload)
type PageHandler struct {
	service service.ServiceInterface
}

func NewPageHandler(service service.ServiceInterface) *PageHandler {
	return &PageHandler{service: service}
}

// formPage là data của employee_form.html
type formPage struct {
	Admin       string
	Title       string
	Action      string
	ID          string
	Form        model.EmployeeRequest
	Error       string
	FieldErrors map[string]string
}

func adminEmail(c *gin.Context) string {
	if s := middleware.CurrentSession(c); s != nil {
		return s.Email
	}
	return ""
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	status, message, _ := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("admin page failed")
	}
	c.HTML(status, "error.html", gin.H{
		"Admin":   adminEmail(c),
		"Title":   "Error",
		"Status":  status,
		"Message": message,
	})
}

// ========================================
// DASHBOARD
// ========================================

// Dashboard - GET /admin/dashboard?q=...
// Full list được nhúng dạng JSON để filter lại phía browser không cần fetch lại
func (h *PageHandler) Dashboard(c *gin.Context) {
	query := c.Query("q")

	all, err := h.service.List(c.Request.Context(), "")
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Admin":     adminEmail(c),
		"Title":     "Dashboard",
		"Query":     query,
		"Employees": model.FilterAndSort(all, query),
		"All":       all,
	})
}

// ========================================
// CREATE / EDIT
// ========================================

// NewForm - GET /admin/create
func (h *PageHandler) NewForm(c *gin.Context) {
	c.HTML(http.StatusOK, "employee_form.html", formPage{
		Admin:  adminEmail(c),
		Title:  "Add Employee",
		Action: "/admin/create",
	})
}

// Create - POST /admin/create
func (h *PageHandler) Create(c *gin.Context) {
	page := formPage{
		Admin:  adminEmail(c),
		Title:  "Add Employee",
		Action: "/admin/create",
	}
	if !h.bindForm(c, &page) {
		return
	}

	if _, err := h.service.Create(c.Request.Context(), page.Form); err != nil {
		h.renderFormError(c, page, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// EditForm - GET /admin/edit/:id
func (h *PageHandler) EditForm(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "employee_form.html", formPage{
		Admin:  adminEmail(c),
		Title:  "Edit Employee",
		Action: "/admin/edit/" + id.String(),
		ID:     id.String(),
		Form:   model.FromEmployee(e),
	})
}

// Update - POST /admin/edit/:id
func (h *PageHandler) Update(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	page := formPage{
		Admin:  adminEmail(c),
		Title:  "Edit Employee",
		Action: "/admin/edit/" + id.String(),
		ID:     id.String(),
	}
	if !h.bindForm(c, &page) {
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, page.Form); err != nil {
		h.renderFormError(c, page, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// bindForm bind form values và upload ảnh nếu có field "photo"
// Lỗi upload render lại form với giá trị đã nhập
func (h *PageHandler) bindForm(c *gin.Context, page *formPage) bool {
	if err := c.ShouldBind(&page.Form); err != nil {
		page.Error = "Invalid form data"
		c.HTML(http.StatusBadRequest, "employee_form.html", page)
		return false
	}

	if file, err := c.FormFile("photo"); err == nil && file.Size > 0 {
		data, err := readUpload(c, "photo")
		if err != nil {
			page.Error = err.Error()
			c.HTML(http.StatusBadRequest, "employee_form.html", page)
			return false
		}
		url, err := h.service.UploadPhoto(c.Request.Context(), data)
		if err != nil {
			h.renderFormError(c, *page, err)
			return false
		}
		page.Form.PhotoURL = url
	}
	return true
}

func (h *PageHandler) renderFormError(c *gin.Context, page formPage, err error) {
	status, message, _ := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("employee form failed")
	}
	if status == http.StatusNotFound {
		h.renderError(c, err)
		return
	}

	page.Error = message
	page.FieldErrors = fieldErrors(err)
	c.HTML(status, "employee_form.html", page)
}

// fieldErrors lấy ozzo validation.Errors (key theo json tag) từ EmployeeError
func fieldErrors(err error) map[string]string {
	var empErr *model.EmployeeError
	if !errors.As(err, &empErr) {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(empErr.Err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, e := range verrs {
		out[field] = e.Error()
	}
	return out
}

func (h *PageHandler) pageID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.renderError(c, model.NewInvalidID(raw))
		return uuid.Nil, false
	}
	return id, true
}

// ========================================
// DELETE (2 bước: confirm page rồi POST)
// ========================================

// DeleteConfirm - GET /admin/edit/:id/delete
func (h *PageHandler) DeleteConfirm(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "delete_confirm.html", gin.H{
		"Admin":    adminEmail(c),
		"Title":    "Delete Employee",
		"Employee": e,
	})
}

// Delete - POST /admin/edit/:id/delete (confirm=yes)
func (h *PageHandler) Delete(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, c.PostForm("confirm") == "yes"); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// ========================================
// BULK UPLOAD
// ========================================

// BulkForm - GET /admin/bulk
func (h *PageHandler) BulkForm(c *gin.Context) {
	c.HTML(http.StatusOK, "bulk.html", gin.H{
		"Admin": adminEmail(c),
		"Title": "Bulk Upload",
	})
}

// BulkUpload - POST /admin/bulk
// Kết quả chỉ báo tổng hợp (created/skipped), không báo lỗi theo row
func (h *PageHandler) BulkUpload(c *gin.Context) {
	data := gin.H{
		"Admin": adminEmail(c),
		"Title": "Bulk Upload",
	}

	file, err := c.FormFile("file")
	if err != nil {
		data["Error"] = "Please choose a .csv or .xlsx file"
		c.HTML(http.StatusBadRequest, "bulk.html", data)
		return
	}

	f, err := file.Open()
	if err != nil {
		data["Error"] = "Could not read the uploaded file"
		c.HTML(http.StatusBadRequest, "bulk.html", data)
		return
	}
	defer f.Close()

	opts := model.ImportOptions{SkipExisting: c.PostForm("skip_existing") != ""}
	result, err := h.service.BulkImport(c.Request.Context(), file.Filename, f, opts)
	if err != nil {
		status, message, _ := model.MapErrorToHTTP(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("file", file.Filename).Msg("bulk upload failed")
		}
		data["Error"] = message
		if model.IsImportFailed(err) && result != nil {
			data["Stopped"] = true
			data["CreatedBeforeStop"] = result.Created
		}
		c.HTML(status, "bulk.html", data)
		return
	}

	data["Result"] = result
	c.HTML(http.StatusOK, "bulk.html", data)
}
