package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openvci/vci-service/pkg/server/framework"
)

type GetHealthCheckResponse struct {
	Status string `json:"status"`
}

const HealthOK string = "OK"

// Health is a simple handler that always responds with a 200 OK
func Health(c *gin.Context) {
	framework.Respond(c, GetHealthCheckResponse{Status: HealthOK}, http.StatusOK)
}
