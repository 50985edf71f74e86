package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dirge/version"
)

// Info reports what binary is serving: build metadata, the versions of the
// tracked modules and the uptime since the handler was created.
func Info(serviceName string) gin.HandlerFunc {
	build := version.GetVersionInfo()
	created := time.Now()

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"version": build.Version,
			"build":   build,
			"uptime":  time.Since(created).Round(time.Millisecond).String(),
			"now":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
