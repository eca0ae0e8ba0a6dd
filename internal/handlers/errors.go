package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cartel47-backend/internal/errs"
)

var statusByKind = map[errs.Kind]int{
	errs.KindValidation: http.StatusBadRequest,
	errs.KindNonce:      http.StatusBadRequest,
	errs.KindConflict:   http.StatusConflict,
	errs.KindNotFound:   http.StatusNotFound,
	errs.KindForbidden:  http.StatusForbidden,
	errs.KindInternal:   http.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if status, ok := statusByKind[errs.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Internal errors are logged and replaced
// by an opaque message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := errs.KindOf(err)
	status := StatusFor(err)

	if kind == errs.KindInternal {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{
		"error": errs.PublicMessage(err),
		"kind":  kind,
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": err.Error(),
		"kind":    errs.KindValidation,
	})
}
