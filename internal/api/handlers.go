package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/imgconvert/internal/convert"
)

// Handler serves the image endpoints.
type Handler struct {
	svc *convert.Service
}

func NewHandler(svc *convert.Service) *Handler {
	return &Handler{svc: svc}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// convertHandler returns the resized PNG for the "url" query param
func (h *Handler) convertHandler(c *gin.Context) {
	p, err := h.svc.ParseParams(c.Query("url"), c.Query("size"), "")
	if err != nil {
		abortWithError(c, err)
		return
	}
	res, err := h.svc.Convert(c.Request.Context(), p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.writeImage(c, res)
}

// previewHandler returns the resized image on a background-colored canvas
func (h *Handler) previewHandler(c *gin.Context) {
	p, err := h.svc.ParseParams(c.Query("url"), c.Query("size"), c.Query("pad"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	res, err := h.svc.Preview(c.Request.Context(), p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.writeImage(c, res)
}

func (h *Handler) writeImage(c *gin.Context, res *convert.Result) {
	c.Header(h.svc.ColorHeader(), res.Color)
	c.Header("X-Image-Width", strconv.Itoa(res.Width))
	c.Header("X-Image-Height", strconv.Itoa(res.Height))
	c.Data(http.StatusOK, "image/png", res.PNG)
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}

func abortWithError(c *gin.Context, err error) {
	status, msg := convert.Status(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
