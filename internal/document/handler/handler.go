package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studentportal/portal/backend/go-services/internal/document"
	"github.com/studentportal/portal/backend/go-services/internal/document/service"
	"github.com/studentportal/portal/backend/go-services/internal/storage"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
	"github.com/studentportal/portal/backend/go-services/pkg/metrics"
	"github.com/studentportal/portal/backend/go-services/pkg/middleware"
)

// DocumentJSON is the wire form of a document.
type DocumentJSON struct {
	ID           int64  `json:"id"`
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	UploadedAt   string `json:"uploaded_at"`
}

// Serialize renders d for API responses.
func Serialize(d *document.Document) DocumentJSON {
	return DocumentJSON{
		ID:           d.ID,
		OriginalName: d.OriginalName,
		StoredName:   d.StoredName,
		UploadedAt:   FormatTimestamp(d.UploadedAt),
	}
}

// FormatTimestamp renders t as ISO 8601 in UTC without a zone suffix, with
// microseconds only when they are non-zero: 2024-05-01T10:00:00 or
// 2024-05-01T10:00:00.123456.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.000000")
}

// RegisterDocumentRoutes mounts upload, list and download on rg. The group is
// expected to carry the authentication middleware; the handlers themselves
// use only the ids supplied in the request.
func RegisterDocumentRoutes(rg *gin.RouterGroup, svc service.Service) {
	h := &documentHandler{svc: svc}
	rg.POST("/upload", h.upload)
	rg.GET("", h.list)
	rg.GET("/download", h.download)
}

type documentHandler struct {
	svc service.Service
}

func (h *documentHandler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": middleware.MsgTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
		return
	}
	rawOwner := strings.TrimSpace(c.PostForm("user_id"))
	if rawOwner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	ownerID, err := strconv.ParseInt(rawOwner, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		logger.Errorf("upload: cannot open multipart file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure"})
		return
	}
	defer f.Close()

	d, err := h.svc.Save(c.Request.Context(), ownerID, fh.Filename, f, fh.Size)
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file name"})
		return
	case err != nil:
		logger.Errorf("upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure"})
		return
	}

	metrics.DocumentsUploaded.Inc()
	metrics.UploadedBytes.Add(float64(fh.Size))
	c.JSON(http.StatusOK, gin.H{"message": "uploaded", "document": Serialize(d)})
}

// list returns the documents of whatever owner id the caller names. A
// missing or non-numeric id matches nothing.
func (h *documentHandler) list(c *gin.Context) {
	out := []DocumentJSON{}
	ownerID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, out)
		return
	}
	docs, err := h.svc.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		logger.Errorf("list: owner=%d: %v", ownerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure"})
		return
	}
	for _, d := range docs {
		out = append(out, Serialize(d))
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandler) download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("file_id"), 10, 64)
	if err != nil || id == 0 {
		metrics.Downloads.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id required"})
		return
	}

	d, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		downloadError(c, id, err)
		return
	}
	rc, size, err := h.svc.Open(c.Request.Context(), d)
	if err != nil {
		downloadError(c, id, err)
		return
	}
	defer rc.Close()

	metrics.Downloads.WithLabelValues("ok").Inc()
	c.DataFromReader(http.StatusOK, size, contentType(d.StoredName), rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": d.StoredName}),
	})
}

func downloadError(c *gin.Context, id int64, err error) {
	if errors.Is(err, document.ErrNotFound) {
		metrics.Downloads.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	metrics.Downloads.WithLabelValues("error").Inc()
	logger.Errorf("download: file_id=%d: %v", id, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure"})
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
