package api

import (
	"net/http"

	"hushhush/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// envelope is the body of every API response
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

// statusFor maps a service error kind to an HTTP status
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a failed envelope. Internal errors are logged and never shown.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"route":  c.FullPath(),
			"error":  err,
		}).Error("Request failed")
	}
	abortWith(c, statusFor(kind), service.PublicMessage(err))
}
