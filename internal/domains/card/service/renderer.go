package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vcard-backend/internal/domains/card/model"
	employeeModel "vcard-backend/internal/domains/employee/model"
)

// EmployeeFinder là phần của employee repository mà card domain cần
type EmployeeFinder interface {
	GetByEmail(ctx context.Context, email string) (*employeeModel.Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*employeeModel.Employee, error)
}

// RendererConfig gom các giá trị branding từ config
type RendererConfig struct {
	BaseURL        string
	Placeholder    string // URL ảnh khi photo trống hoặc lỗi
	CompanyName    string
	CompanyEmail   string
	CompanyWebsite string
}

// Renderer build CardView từ một employee record
type Renderer struct {
	finder EmployeeFinder
	cfg    RendererConfig
}

func NewRenderer(finder EmployeeFinder, cfg RendererConfig) *Renderer {
	return &Renderer{finder: finder, cfg: cfg}
}

// Render lookup theo email, record không tồn tại trả CardView{Found: false} và nil error
func (r *Renderer) Render(ctx context.Context, email string, mode model.Mode) (*model.CardView, error) {
	view := &model.CardView{
		Mode:      mode,
		ShareLink: BaseLink(r.cfg.BaseURL, email),
		Footer:    r.footer(),
	}

	e, err := r.finder.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return view, nil
	}

	card, err := r.BuildCard(e)
	if err != nil {
		return nil, err
	}
	view.Found = true
	view.Card = card
	return view, nil
}

// RenderByID dùng cho export job, record không tồn tại là CardNotFound
func (r *Renderer) RenderByID(ctx context.Context, id uuid.UUID) (*model.CardView, error) {
	e, err := r.finder.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, model.NewCardNotFound(id.String())
	}

	card, err := r.BuildCard(e)
	if err != nil {
		return nil, err
	}
	return &model.CardView{
		Found:     true,
		Card:      card,
		ShareLink: card.QR.Link,
		Footer:    r.footer(),
	}, nil
}

// BuildCard map record sang Card; QR encode base link của email đã lưu
func (r *Renderer) BuildCard(e *employeeModel.Employee) (*model.Card, error) {
	link := BaseLink(r.cfg.BaseURL, e.Email)
	png, dataURL, err := QRCode(link)
	if err != nil {
		return nil, model.NewRenderFailed(err)
	}

	photo := PhotoSource(strings.TrimSpace(e.PhotoURL))
	if photo == "" {
		photo = r.cfg.Placeholder
	}

	return &model.Card{
		EmployeeID:  e.ID.String(),
		Photo:       model.Photo{URL: photo, FallbackURL: r.cfg.Placeholder},
		FullName:    e.FullName,
		Designation: e.Designation,
		Company:     e.Company,
		Phone:       model.Link{Display: e.Phone, Href: telHref(e.Phone)},
		Email:       model.Link{Display: e.Email, Href: mailtoHref(e.Email)},
		Address:     e.Address,
		Website:     model.Link{Display: e.Website, Href: websiteHref(e.Website)},
		QR:          model.QR{Link: link, DataURL: dataURL, PNG: png},
	}, nil
}

func (r *Renderer) footer() model.Footer {
	return model.Footer{
		CompanyName: r.cfg.CompanyName,
		Email:       model.Link{Display: r.cfg.CompanyEmail, Href: mailtoHref(r.cfg.CompanyEmail)},
		Website:     model.Link{Display: r.cfg.CompanyWebsite, Href: websiteHref(r.cfg.CompanyWebsite)},
		LogoURL:     r.cfg.Placeholder,
	}
}
