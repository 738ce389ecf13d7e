package handlers

import (
	"time"

	"github.com/francismul/oracle-image-gallery/logger"
	"github.com/francismul/oracle-image-gallery/utils"

	"github.com/gin-gonic/gin"
)

// PushHook accepts a host-delivered push event and returns the notification
// descriptor the shell should display.
func PushHook(c *gin.Context) {
	body := "New notification"
	if raw, err := c.GetRawData(); err == nil && len(raw) > 0 {
		body = string(raw)
	}

	utils.Success(c, gin.H{
		"title":   "Oracle Mode",
		"body":    body,
		"icon":    "assets/images/icon-192.jpg",
		"badge":   "assets/images/icon-192.jpg",
		"vibrate": []int{100, 50, 100},
		"data": gin.H{
			"dateOfArrival": time.Now().UnixMilli(),
			"primaryKey":    "1",
		},
	})
}

type syncHookRequest struct {
	Tag string `json:"tag"`
}

// SyncHook accepts a background-sync event. No persisted work happens here.
func SyncHook(c *gin.Context) {
	var req syncHookRequest
	_ = c.ShouldBindJSON(&req)

	if req.Tag == "background-sync" {
		logger.Debugf("background sync triggered")
	}
	utils.Success(c, gin.H{"accepted": true})
}
