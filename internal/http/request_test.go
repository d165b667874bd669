package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBodyJSON(t *testing.T) {
	var out struct {
		DarkMode bool `json:"dark_mode"`
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"dark_mode":true}`))
	require.NoError(t, readBodyJSON(req, 64, &out))
	assert.True(t, out.DarkMode)

	req = httptest.NewRequest(http.MethodPut, "/", nil)
	require.NoError(t, readBodyJSON(req, 64, &out))

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"dark_mode":true}`))
	err := readBodyJSON(req, 8, &out)
	assert.True(t, errors.Is(err, errBodyTooLarge))
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}
