package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitEngine(max int64) *gin.Engine {
	g := gin.New()
	g.Use(BodyLimit(max))
	g.POST("/upload", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": MsgTooLarge})
			return
		}
		c.String(http.StatusOK, "%d", len(b))
	})
	return g
}

func TestBodyLimit_DeclaredLengthOverCap(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 20)))
	rw := httptest.NewRecorder()
	limitEngine(10).ServeHTTP(rw, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rw.Code)
	assert.JSONEq(t, `{"error":"File too large"}`, rw.Body.String())
}

func TestBodyLimit_UnknownLengthCutOff(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", io.MultiReader(strings.NewReader(strings.Repeat("x", 20))))
	req.ContentLength = -1
	rw := httptest.NewRecorder()
	limitEngine(10).ServeHTTP(rw, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rw.Code)
}

func TestBodyLimit_UnderCapAndDisabled(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("12345"))
	rw := httptest.NewRecorder()
	limitEngine(10).ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "5", rw.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 20)))
	rw = httptest.NewRecorder()
	limitEngine(0).ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)
}
