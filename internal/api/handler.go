package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"deliverydir/internal/directory"
	"deliverydir/internal/logger"
)

type handler struct {
	svc    *directory.Service
	logger *logger.Logger
}

// serve recomputes the document on every request.
func (h *handler) serve(route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := h.svc.Document(route.Bindings...)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": http.StatusText(http.StatusInternalServerError),
			})

			return
		}

		c.JSON(http.StatusOK, doc)
	}
}
