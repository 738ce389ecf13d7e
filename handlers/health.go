package handlers

import (
	"github.com/francismul/oracle-image-gallery/utils"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "oracle-image-gallery",
		"cache":   getServices().AssetCache.State(),
	})
}
