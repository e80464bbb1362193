package http

import (
	"errors"
	"testing"

	"github.com/gradebook-web/gradebook/http/status"
	"github.com/stretchr/testify/require"
)

func TestResponseDefaults(t *testing.T) {
	resp := NewResponse()
	require.Equal(t, status.OK, resp.Code)
	require.Equal(t, "text/plain; charset=utf-8", resp.ContentType)
	require.Empty(t, resp.Body)
}

func TestResponseBuilders(t *testing.T) {
	resp := NewResponse().
		WithCode(status.Conflict).
		WithHTML("<p>taken</p>")

	require.Equal(t, status.Conflict, resp.Code)
	require.Equal(t, "text/html; charset=utf-8", resp.ContentType)
	require.Equal(t, "<p>taken</p>", string(resp.Body))
}

func TestResponseWithJSON(t *testing.T) {
	resp := NewResponse().WithJSON(map[string]int{"id": 1001})
	require.Equal(t, "application/json", resp.ContentType)
	require.JSONEq(t, `{"id":1001}`, string(resp.Body))
}

func TestError(t *testing.T) {
	t.Run("status errors keep their code", func(t *testing.T) {
		resp := Error(status.ErrNotFound)
		require.Equal(t, status.NotFound, resp.Code)
	})

	t.Run("plain errors become 500", func(t *testing.T) {
		resp := Error(errors.New("disk on fire"))
		require.Equal(t, status.InternalServerError, resp.Code)
		require.NotContains(t, string(resp.Body), "disk")
	})
}
