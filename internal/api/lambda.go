package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"github.com/youruser/imgconvert/internal/convert"
)

// LambdaHandler serves the convert and preview routes from API Gateway
// proxy events.
type LambdaHandler struct {
	svc *convert.Service
}

func NewLambdaHandler(svc *convert.Service) *LambdaHandler {
	return &LambdaHandler{svc: svc}
}

// Handle is passed to lambda.Start.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod != "" && req.HTTPMethod != http.MethodGet {
		return jsonError(http.StatusMethodNotAllowed, "method not allowed"), nil
	}
	q := req.QueryStringParameters
	preview := strings.HasSuffix(strings.TrimRight(req.Path, "/"), "/preview")

	pad := ""
	if preview {
		pad = q["pad"]
	}
	p, err := h.svc.ParseParams(q["url"], q["size"], pad)
	if err != nil {
		status, msg := convert.Status(err)
		return jsonError(status, msg), nil
	}

	var res *convert.Result
	if preview {
		res, err = h.svc.Preview(ctx, p)
	} else {
		res, err = h.svc.Convert(ctx, p)
	}
	if err != nil {
		status, msg := convert.Status(err)
		return jsonError(status, msg), nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":      "image/png",
			h.svc.ColorHeader(): res.Color,
		},
		Body:            base64.StdEncoding.EncodeToString(res.PNG),
		IsBase64Encoded: true,
	}, nil
}

// internalErrorBody is sent when an error body itself cannot be marshalled.
const internalErrorBody = `{"error":"internal server error"}`

func jsonError(status int, msg string) events.APIGatewayProxyResponse {
	b, err := json.Marshal(gin.H{"error": msg})
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       internalErrorBody,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}
