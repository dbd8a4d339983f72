package model_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/stretchr/testify/assert"
)

func TestErrToHttpStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, model.ErrToHttpStatus(model.ErrInvalidParameter))
	assert.Equal(t, http.StatusUnauthorized, model.ErrToHttpStatus(model.ErrAuth))
	assert.Equal(t, http.StatusForbidden, model.ErrToHttpStatus(model.ErrPermission))
	assert.Equal(t, http.StatusNotFound, model.ErrToHttpStatus(model.ErrDataNotFound))
	assert.Equal(t, http.StatusConflict, model.ErrToHttpStatus(model.ErrWrongStatus))
	assert.Equal(t, http.StatusBadGateway, model.ErrToHttpStatus(model.ErrCAExpired))
	assert.Equal(t, http.StatusServiceUnavailable, model.ErrToHttpStatus(model.ErrTransient))
	assert.Equal(t, http.StatusInternalServerError, model.ErrToHttpStatus(errors.New("boom")))

	// Wrapped sentinels keep their mapping.
	assert.Equal(t, http.StatusNotFound, model.ErrToHttpStatus(model.ErrRequestNotFound))
	assert.Equal(t, http.StatusConflict, model.ErrToHttpStatus(fmt.Errorf("request is pending %w", model.ErrWrongStatus)))
}
