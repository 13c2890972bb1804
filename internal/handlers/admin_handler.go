package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/validation"
)

// RegisterAdminRoutes registers the bearer-gated management routes.
func RegisterAdminRoutes(r *gin.Engine, cfg HandlerConfig) {
	svc := cfg.Service
	admin := r.Group("/admin", AdminAuth(cfg.AdminSecret))

	admin.GET("/requests", func(c *gin.Context) {
		ctx := c.Request.Context()

		if id := requestID(c); id != "" {
			lead, err := svc.Get(ctx, id)
			if err != nil {
				adminError(c, cfg, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "request": lead})
			return
		}

		records, err := svc.List(ctx)
		if err != nil {
			adminError(c, cfg, err)
			return
		}
		total := len(records)
		if cfg.AdminListLimit > 0 && total > cfg.AdminListLimit {
			records = records[:cfg.AdminListLimit]
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "requests": records, "total": total})
	})

	admin.PATCH("/requests", func(c *gin.Context) {
		id := requestID(c)
		if id == "" {
			missingID(c)
			return
		}

		var in leads.UpdateInput
		if c.Request.ContentLength != 0 {
			if err := validation.BindJSON(c, &in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
				return
			}
		}

		lead, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			adminError(c, cfg, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Request updated successfully",
			"request": lead,
		})
	})

	admin.DELETE("/requests", func(c *gin.Context) {
		id := requestID(c)
		if id == "" {
			missingID(c)
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			adminError(c, cfg, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request deleted successfully"})
	})
}

func requestID(c *gin.Context) string {
	return strings.TrimSpace(c.Query("id"))
}

func missingID(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request ID is required"})
}

// adminError maps service errors onto admin responses.
func adminError(c *gin.Context, cfg HandlerConfig, err error) {
	var ve *leads.ValidationError
	switch {
	case errors.Is(err, leads.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Request not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ve.Message})
	default:
		cfg.Logger.Error("admin API error", zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
		_ = c.Error(err)
		body := gin.H{"success": false, "message": "Internal server error"}
		if cfg.ExposeErrors {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
