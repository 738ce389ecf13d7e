package handlers

import (
	"io"
	"net/http"

	"github.com/francismul/oracle-image-gallery/services"
	"github.com/francismul/oracle-image-gallery/utils"

	"github.com/gin-gonic/gin"
)

type ingestURLsRequest struct {
	URLs string `json:"urls" binding:"required"`
}

// IngestURLs downloads and stores every image named in the newline-separated
// list. Per-item failures come back in the report's error list.
func IngestURLs(c *gin.Context) {
	var req ingestURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := getServices().Ingest.IngestURLs(c.Request.Context(), req.URLs)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, report)
}

// IngestFiles stores the uploaded multipart files; non-image uploads are
// counted as skipped in the report rather than silently dropped.
func IngestFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to read upload form")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		utils.Error(c, http.StatusBadRequest, "no files provided")
		return
	}

	files := make([]services.IngestFile, 0, len(headers))
	for _, header := range headers {
		src, openErr := header.Open()
		if openErr != nil {
			utils.Error(c, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		data, readErr := io.ReadAll(src)
		src.Close()
		if readErr != nil {
			utils.Error(c, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		files = append(files, services.IngestFile{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	report, svcErr := getServices().Ingest.IngestFiles(c.Request.Context(), files)
	if respondServiceError(c, svcErr) {
		return
	}
	utils.Success(c, report)
}

func GetIngestProgress(c *gin.Context) {
	progress, err := getServices().Ingest.Progress(c.Request.Context())
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, progress)
}
