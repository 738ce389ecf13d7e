package middleware

import (
	"net/http"
	"strings"

	"github.com/francismul/oracle-image-gallery/logger"
	"github.com/francismul/oracle-image-gallery/models"
	"github.com/francismul/oracle-image-gallery/services"

	"github.com/gin-gonic/gin"
)

// ShellCache fronts application-shell requests with the versioned asset
// cache: cached entries are served verbatim, misses are fetched upstream and
// written through, and a navigation request whose upstream fetch fails falls
// back to the cached entry point.
func ShellCache(cache services.AssetCacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || isAPIPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		path := c.Request.URL.Path
		if path == "/" {
			path = cache.EntryPoint()
		}

		if asset, ok := cache.Lookup(ctx, path); ok {
			serveAsset(c, http.StatusOK, asset)
			return
		}

		asset, err := cache.FetchUpstream(ctx, path)
		if err != nil {
			if isNavigation(c.Request) {
				if entry, ok := cache.Lookup(ctx, cache.EntryPoint()); ok {
					serveAsset(c, http.StatusOK, entry)
					return
				}
			}
			c.AbortWithStatus(http.StatusBadGateway)
			return
		}

		if asset.Status == http.StatusOK {
			if storeErr := cache.Store(ctx, asset); storeErr != nil {
				logger.Debugf("write-through for %s failed: %v", path, storeErr)
			}
		}
		serveAsset(c, asset.Status, asset)
	}
}

func serveAsset(c *gin.Context, status int, asset models.ShellAsset) {
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(status, contentType, asset.Body)
	c.Abort()
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api") ||
		strings.HasPrefix(path, "/blobs") ||
		strings.HasPrefix(path, "/hooks")
}

func isNavigation(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
