package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/validation"
)

// RegisterRequestRoutes registers the public submission and statistics routes.
func RegisterRequestRoutes(r *gin.Engine, cfg HandlerConfig) {
	svc := cfg.Service

	r.POST("/requests", func(c *gin.Context) {
		var in leads.SubmitInput
		if c.Request.ContentLength != 0 {
			if err := validation.BindJSON(c, &in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
				return
			}
		}

		lead, err := svc.Submit(c.Request.Context(), in)
		if err != nil {
			var ve *leads.ValidationError
			if errors.As(err, &ve) {
				c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
				return
			}
			publicFailure(c, cfg, "Error submitting request", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Request submitted successfully",
			"request": lead,
		})
	})

	r.GET("/requests", func(c *gin.Context) {
		records, err := svc.List(c.Request.Context())
		if err != nil {
			publicFailure(c, cfg, "Error fetching requests", err)
			return
		}
		c.JSON(http.StatusOK, records)
	})

	r.GET("/statistics", func(c *gin.Context) {
		st, err := svc.Statistics(c.Request.Context())
		if err != nil {
			publicFailure(c, cfg, "Error fetching statistics", err)
			return
		}
		c.JSON(http.StatusOK, st)
	})
}

func publicFailure(c *gin.Context, cfg HandlerConfig, message string, err error) {
	cfg.Logger.Error(message, zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
	_ = c.Error(err)
	body := gin.H{"message": message}
	if cfg.ExposeErrors {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
