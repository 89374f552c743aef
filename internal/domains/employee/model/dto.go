package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// EmployeeRequest dùng cho create và update (full overwrite, không partial patch)
type EmployeeRequest struct {
	FullName    string `json:"full_name" form:"full_name"`
	Designation string `json:"designation" form:"designation"`
	Company     string `json:"company" form:"company"`
	Phone       string `json:"phone" form:"phone"`
	Email       string `json:"email" form:"email"`
	Address     string `json:"address" form:"address"`
	Website     string `json:"website" form:"website"`
	PhotoURL    string `json:"photo_url" form:"photo_url"`
}

func (r EmployeeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.By(notBlank("full name is required")),
			validation.Length(1, 200),
		),
		validation.Field(&r.Email,
			validation.By(notBlank("email is required")),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, 255),
		),
		validation.Field(&r.Designation, validation.Length(0, 200)),
		validation.Field(&r.Company, validation.Length(0, 200)),
		validation.Field(&r.Phone, validation.Length(0, 50)),
		validation.Field(&r.Address, validation.Length(0, 500)),
		validation.Field(&r.Website, validation.Length(0, 500)),
		validation.Field(&r.PhotoURL,
			validation.When(r.PhotoURL != "", is.URL.Error("photo URL must be a valid URL")),
		),
	)
}

// ToEmployee copy các field như được submit, không trim và không default
func (r EmployeeRequest) ToEmployee() *Employee {
	return &Employee{
		FullName:    r.FullName,
		Designation: r.Designation,
		Company:     r.Company,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		Website:     r.Website,
		PhotoURL:    r.PhotoURL,
	}
}

// FromEmployee dùng để prefill form edit
func FromEmployee(e *Employee) EmployeeRequest {
	return EmployeeRequest{
		FullName:    e.FullName,
		Designation: e.Designation,
		Company:     e.Company,
		Phone:       e.Phone,
		Email:       e.Email,
		Address:     e.Address,
		Website:     e.Website,
		PhotoURL:    e.PhotoURL,
	}
}

func notBlank(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError("validation_required", msg)
		}
		return nil
	}
}
