package service

import (
	"context"

	"vcard-backend/internal/domains/card/model"
)

// ContactSaver là native contact capability (ví dụ browser Contacts API)
type ContactSaver interface {
	Capability(ctx context.Context) model.Capability
	Save(ctx context.Context, card *model.Card) error
}

// UnavailableSaver là saver phía server: không có native capability
type UnavailableSaver struct{}

func (UnavailableSaver) Capability(context.Context) model.Capability {
	return model.CapabilityUnavailable
}

func (UnavailableSaver) Save(context.Context, *model.Card) error {
	return model.NewCaptureFailed(nil)
}
