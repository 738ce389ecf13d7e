package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/francismul/oracle-image-gallery/utils"

	"github.com/gin-gonic/gin"
)

// ListImages returns the in-memory gallery snapshot, newest first.
func ListImages(c *gin.Context) {
	gallery := getServices().Gallery
	utils.Success(c, gin.H{
		"images": gallery.Images(),
		"storage": gallery.StorageInfo(),
	})
}

func GetImage(c *gin.Context) {
	id, err := parseImageID(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid image id")
		return
	}

	image, ok := getServices().Gallery.Get(id)
	if !ok {
		utils.Error(c, http.StatusNotFound, "image not found")
		return
	}
	utils.Success(c, image)
}

func DeleteImage(c *gin.Context) {
	id, err := parseImageID(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if respondServiceError(c, getServices().Gallery.DeleteOne(c.Request.Context(), id)) {
		return
	}
	utils.SuccessWithMessage(c, "image deleted", nil)
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

func BatchDeleteImages(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if respondServiceError(c, getServices().Gallery.Delete(c.Request.Context(), req.IDs)) {
		return
	}
	utils.SuccessWithMessage(c, fmt.Sprintf("%d image(s) deleted", len(req.IDs)), nil)
}

// ExportImage streams the original bytes as an attachment download.
func ExportImage(c *gin.Context) {
	id, err := parseImageID(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid image id")
		return
	}

	image, svcErr := getServices().Gallery.Export(c.Request.Context(), id)
	if respondServiceError(c, svcErr) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", image.Name))
	c.Data(http.StatusOK, image.MimeType, image.Blob)
}

func GetStorageInfo(c *gin.Context) {
	utils.Success(c, getServices().Gallery.StorageInfo())
}

func parseImageID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
