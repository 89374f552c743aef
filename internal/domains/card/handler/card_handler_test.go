package handler

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcard-backend/internal/domains/card/model"
	"vcard-backend/internal/domains/card/service"
	employeeModel "vcard-backend/internal/domains/employee/model"
	"vcard-backend/web"
)

type fakeFinder struct {
	records []*employeeModel.Employee
}

func (f *fakeFinder) GetByEmail(_ context.Context, email string) (*employeeModel.Employee, error) {
	for _, e := range f.records {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeFinder) GetByID(_ context.Context, id uuid.UUID) (*employeeModel.Employee, error) {
	for _, e := range f.records {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

type countingRasterizer struct{ calls int }

func (r *countingRasterizer) Raster(context.Context, *model.CardView) ([]byte, error) {
	r.calls++
	return []byte("\x89PNG"), nil
}

type fakeEnqueuer struct{ tasks []*asynq.Task }

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = b
	return nil
}

func (c *memoryCache) Delete(context.Context, ...string) error      { return nil }
func (c *memoryCache) Exists(context.Context, string) (bool, error) { return false, nil }
func (c *memoryCache) Ping(context.Context) error                   { return nil }

type fixture struct {
	router *gin.Engine
	finder *fakeFinder
	raster *countingRasterizer
	queue  *fakeEnqueuer
	asha   *employeeModel.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	asha := &employeeModel.Employee{
		ID:          uuid.New(),
		FullName:    "Asha Rao",
		Designation: "Engineer",
		Phone:       "+91 98450 00000",
		Email:       "asha@selco.in",
		Website:     "www.selco-india.com",
	}
	finder := &fakeFinder{records: []*employeeModel.Employee{asha}}

	renderer := service.NewRenderer(finder, service.RendererConfig{
		BaseURL:        "https://cards.example.com",
		Placeholder:    "/static/logo.png",
		CompanyName:    "SELCO",
		CompanyEmail:   "selco@selco-india.com",
		CompanyWebsite: "www.selco-india.com",
	})
	raster := &countingRasterizer{}
	queue := &fakeEnqueuer{}
	jobs := service.NewExportJobs(finder, queue, &memoryCache{}, 1500*time.Millisecond, time.Hour)

	tmpl, err := web.LoadTemplates()
	require.NoError(t, err)

	h := NewHandler(renderer, service.NewExporter(raster, nil), jobs, 1500*time.Millisecond)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/vcard/:email", h.ShowCard)
	r.GET("/vcard/:email/card.png", h.DownloadPNG)
	r.GET("/vcard/:email/contact.vcf", h.DownloadContact)
	r.GET("/api/v1/vcard/:email", h.GetCard)
	r.POST("/api/v1/admin/employees/:id/export", h.ScheduleExport)
	r.GET("/api/v1/admin/employees/:id/export", h.ExportStatus)

	return &fixture{router: r, finder: finder, raster: raster, queue: queue, asha: asha}
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestShowCard_Public(t *testing.T) {
	f := newFixture(t)

	w := f.get("/vcard/asha@selco.in")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, `href="tel:`)
	assert.Contains(t, body, "919845000000")
	assert.NotContains(t, body, "ZgotmplZ")
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, "card-footer")
	assert.NotContains(t, body, "setTimeout")
	assert.Zero(t, f.raster.calls)
}

func TestShowCard_AdminHidesFooterAndShowsClose(t *testing.T) {
	f := newFixture(t)

	w := f.get("/vcard/asha@selco.in?admin=true")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.NotContains(t, body, "card-footer")
	assert.Contains(t, body, `class="close"`)
}

func TestShowCard_DownloadMarkerSchedulesPNG(t *testing.T) {
	f := newFixture(t)

	w := f.get("/vcard/asha@selco.in?admin=true&download=true")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "setTimeout")
	assert.Contains(t, body, "1500")
	assert.Contains(t, body, "/vcard/asha@selco.in/card.png")
	// Marker không được lọt vào QR: QR chỉ encode base link
	assert.Zero(t, f.raster.calls)
}

func TestShowCard_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	w := f.get("/vcard/ghost@selco.in?download=true")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Employee not found")
	assert.NotContains(t, w.Body.String(), "setTimeout")

	w = f.get("/vcard/ghost@selco.in/card.png")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, f.raster.calls)
}

func TestDownloadPNG(t *testing.T) {
	f := newFixture(t)

	w := f.get("/vcard/asha@selco.in/card.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename=Asha_Rao.png")
	assert.Equal(t, 1, f.raster.calls)
}

func TestDownloadPNG_DispositionEscapesName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		filename string
	}{
		{"quotes", `Asha "Ace" Rao`, "ace@selco.in", `Asha_"Ace"_Rao.png`},
		{"semicolon", "Asha; x=1", "semi@selco.in", "Asha;_x=1.png"},
		{"non ascii", "Ásha Rao", "utf@selco.in", "Ásha_Rao.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.finder.records = append(f.finder.records, &employeeModel.Employee{
				ID:       uuid.New(),
				FullName: tt.fullName,
				Email:    tt.email,
			})

			w := f.get("/vcard/" + tt.email + "/card.png")
			require.Equal(t, http.StatusOK, w.Code)

			disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, tt.filename, params["filename"])
			assert.Len(t, params, 1)
		})
	}
}

func TestDownloadContact_FallsBackToVCF(t *testing.T) {
	f := newFixture(t)

	w := f.get("/vcard/asha@selco.in/contact.vcf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename=Asha_Rao.vcf")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCARD\r\nVERSION:3.0\r\n"))
	assert.Contains(t, body, "FN:Asha Rao\r\n")
	assert.Contains(t, body, "EMAIL;TYPE=INTERNET,WORK:asha@selco.in\r\n")
}

func TestGetCard_JSON(t *testing.T) {
	f := newFixture(t)

	w := f.get("/api/v1/vcard/asha@selco.in")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data model.CardView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Found)
	assert.Equal(t, "https://cards.example.com/vcard/asha@selco.in", body.Data.ShareLink)

	w = f.get("/api/v1/vcard/ghost@selco.in")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), model.CodeCardNotFound)
}

func TestScheduleExportAndStatus(t *testing.T) {
	f := newFixture(t)
	path := "/api/v1/admin/employees/" + f.asha.ID.String() + "/export"

	w := f.get(path)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"`+model.ExportNone+`"`)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, f.queue.tasks, 1)

	w = f.get(path)
	assert.Contains(t, w.Body.String(), `"state":"`+model.ExportPending+`"`)
}

func TestScheduleExport_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/employees/"+uuid.NewString()+"/export", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.queue.tasks)
}
