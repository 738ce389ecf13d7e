package handlers

import (
	"net/http"

	"github.com/francismul/oracle-image-gallery/utils"

	"github.com/gin-gonic/gin"
)

func GetTheme(c *gin.Context) {
	theme, err := getServices().Settings.Theme(c.Request.Context())
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"theme": theme})
}

type setThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func SetTheme(c *gin.Context) {
	var req setThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if respondServiceError(c, getServices().Settings.SetTheme(c.Request.Context(), req.Theme)) {
		return
	}
	utils.Success(c, gin.H{"theme": req.Theme})
}
