package revocation

import (
	"fmt"

	"github.com/certops/certops/pkg/lifecycle/model"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateRevokeByRequestIDRequest(requestID, requester string) error {
	req := struct {
		RequestID string
		Requester string
	}{requestID, requester}

	if err := validation.ValidateStruct(&req,
		validation.Field(&req.RequestID, validation.Required),
		validation.Field(&req.Requester, validation.Required),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	return nil
}

func ValidateRevokeBySerialRequest(serialNumber, requester string) error {
	req := struct {
		SerialNumber string
		Requester    string
	}{serialNumber, requester}

	if err := validation.ValidateStruct(&req,
		validation.Field(&req.SerialNumber, validation.Required),
		validation.Field(&req.Requester, validation.Required),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	return nil
}
