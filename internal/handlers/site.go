package handlers

import (
	_ "embed"
	"net/http"

	"callqueue/internal/response"

	"github.com/gin-gonic/gin"
)

//go:embed dashboard.html
var dashboardHTML []byte

// Root greets API consumers.
// @Summary		Service banner
// @Tags			service
// @Produce		json
// @Success		200	{object}	response.MessageResponse
// @Router			/ [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, response.MessageResponse{
		Message: "Welcome to the Call Queue Management Service.",
	})
}

// Healthz reports process liveness.
// @Summary		Liveness probe
// @Tags			service
// @Produce		json
// @Success		200	{object}	map[string]string
// @Router			/healthz [get]
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dashboard serves the operator page. All of its data arrives over the
// live WebSocket feed, so the page itself is static.
func Dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}
