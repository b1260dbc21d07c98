package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Write(t *testing.T) {
	t.Parallel()

	resp := NewTextResponse(http.StatusTeapot, "short and stout")
	resp.Header = http.Header{"X-Route": []string{"teapot"}}

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Write(rec))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
	assert.Equal(t, ContentTypeText, rec.Header().Get("Content-Type"))
	assert.Equal(t, "teapot", rec.Header().Get("X-Route"))
}

func TestNewJSONResponse(t *testing.T) {
	t.Parallel()

	resp, err := NewJSONResponse(http.StatusOK, map[string]string{"status": "ok"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, ContentTypeJSON, resp.ContentType)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Body))
}

func TestNewJSONResponse_MarshalError(t *testing.T) {
	t.Parallel()

	_, err := NewJSONResponse(http.StatusOK, make(chan int))
	assert.Error(t, err)
}

func TestRequest_Param(t *testing.T) {
	t.Parallel()

	req := &Request{Params: map[string]string{"id": "42"}}
	assert.Equal(t, "42", req.Param("id"))
	assert.Empty(t, req.Param("missing"))
}

func TestRequest_Context(t *testing.T) {
	t.Parallel()

	req := &Request{}
	assert.Equal(t, context.Background(), req.Context())

	type ctxKey struct{}
	httpReq := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	httpReq = httpReq.WithContext(context.WithValue(httpReq.Context(), ctxKey{}, "v"))

	req = &Request{HTTP: httpReq}
	assert.Equal(t, "v", req.Context().Value(ctxKey{}))
}

func TestHandlerFunc_Handle(t *testing.T) {
	t.Parallel()

	h := HandlerFunc(func(req *Request) (*Response, error) {
		return NewTextResponse(http.StatusOK, req.Param("id")), nil
	})

	resp, err := h.Handle(&Request{Params: map[string]string{"id": "7"}})
	require.NoError(t, err)
	assert.Equal(t, []byte("7"), resp.Body)
}
