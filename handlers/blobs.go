package handlers

import (
	"net/http"

	"github.com/francismul/oracle-image-gallery/utils"

	"github.com/gin-gonic/gin"
)

// GetBlob resolves a display-handle token. A revoked or unknown token is a
// 404; handles are ephemeral by design.
func GetBlob(c *gin.Context) {
	data, contentType, ok := getServices().Handles.Resolve(c.Param("token"))
	if !ok {
		utils.Error(c, http.StatusNotFound, "blob not found")
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
