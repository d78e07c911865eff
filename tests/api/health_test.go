package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIHealth(t *testing.T) {
	tc, ctx := startAPITest(t)

	resp, err := tc.API().Get(ctx, "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "ok", resp.Get("status").String())
}
