package handlers

import (
	"net/http"

	"carwash/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency snapshot taken by the health monitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	for _, up := range status.Services {
		if !up {
			code = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(code, gin.H{"status": http.StatusText(code), "health": status})
}
