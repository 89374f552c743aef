package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee là một contact record, email là key dùng cho public card link
type Employee struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Designation string    `json:"designation"`
	Company     string    `json:"company"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	Website     string    `json:"website"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchableFields là các column được phép dùng với FindByField
var SearchableFields = map[string]string{
	"email":       "email",
	"full_name":   "full_name",
	"designation": "designation",
	"company":     "company",
	"phone":       "phone",
}
