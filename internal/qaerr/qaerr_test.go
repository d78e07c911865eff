package qaerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorRendersContext(t *testing.T) {
	err := Wrap(KindTimeout, errors.New("deadline exceeded"), "element not visible").
		WithLabel("login submit button").
		WithURL("http://app.test/login")

	msg := err.Error()
	assert.Contains(t, msg, "timeout")
	assert.Contains(t, msg, "login submit button")
	assert.Contains(t, msg, "http://app.test/login")
	assert.Contains(t, msg, "deadline exceeded")
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	inner := New(KindConflict, "duplicate email")
	outer := fmt.Errorf("arrange user: %w", inner)
	assert.Equal(t, KindConflict, KindOf(outer))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestFromStatus(t *testing.T) {
	cases := map[int]Kind{
		http.StatusBadRequest:          KindValidation,
		http.StatusUnprocessableEntity: KindValidation,
		http.StatusUnauthorized:        KindAuthentication,
		http.StatusForbidden:           KindAuthorization,
		http.StatusNotFound:            KindNotFound,
		http.StatusGone:                KindNotFound,
		http.StatusConflict:            KindConflict,
		http.StatusInternalServerError: KindInfrastructure,
		http.StatusBadGateway:          KindInfrastructure,
		http.StatusTeapot:              KindUnknown,
	}
	for status, want := range cases {
		assert.Equal(t, want, FromStatus(status), "status %d", status)
	}
}

func TestCleanupStatusOK(t *testing.T) {
	assert.True(t, CleanupDeleted.OK())
	assert.True(t, CleanupAlreadyGone.OK())
	assert.False(t, CleanupFailed.OK())
	assert.Equal(t, "already_gone", CleanupAlreadyGone.String())
}
