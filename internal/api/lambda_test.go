package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/youruser/imgconvert/internal/config"
	"github.com/youruser/imgconvert/internal/convert"
)

func newLambda() *LambdaHandler {
	return NewLambdaHandler(convert.NewService(config.Default(), zap.NewNop()))
}

func TestLambdaConvert(t *testing.T) {
	body := redPNG(t, 1000, 500)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer upstream.Close()

	resp, err := newLambda().Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/api/ConvertImageFunction",
		QueryStringParameters: map[string]string{"url": upstream.URL, "size": "500"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, "#633636", resp.Headers["X-Background-Color"])

	raw, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 250, cfg.Height)
}

func TestLambdaErrors(t *testing.T) {
	h := newLambda()

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"missing 'url' parameter"}`, resp.Body)
}

func TestJSONError(t *testing.T) {
	resp := jsonError(http.StatusBadRequest, `url returned content type "text/html", expected image/*`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.JSONEq(t, `{"error":"url returned content type \"text/html\", expected image/*"}`, resp.Body)
	assert.JSONEq(t, `{"error":"internal server error"}`, internalErrorBody)
}
