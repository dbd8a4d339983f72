package intake

import (
	"fmt"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/storage"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func ValidateSubmitRequestRequest(req SubmitRequestRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.RequesterEmail, validation.Required, is.EmailFormat),
		validation.Field(&req.AccountID, validation.Required),
		validation.Field(&req.RoleName, validation.Required),
		validation.Field(&req.CertName, validation.Required),
		validation.Field(&req.CommonName, validation.Required),
		validation.Field(&req.TTLHours, validation.Min(0.0)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	return nil
}

func ValidateListRequestsRequest(req storage.ListRequestsRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Offset, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	return nil
}
