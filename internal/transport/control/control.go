package control

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/shift-router/internal/domain/pass"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
)

func Register(rg *gin.RouterGroup, svc *controllersvc.Service) {
	rg.GET("/status", getStatus(svc))
	rg.POST("/control", setRunning(svc))
	rg.POST("/run", runOnce(svc))
	rg.POST("/outcomes/prune", pruneOutcomes(svc))
}

func getStatus(svc *controllersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := svc.Status(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

type controlReq struct {
	Action string `json:"action" binding:"required"`
}

func setRunning(svc *controllersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req controlReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var running bool
		switch req.Action {
		case "start":
			running = true
		case "stop":
			running = false
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "action must be start or stop"})
			return
		}

		st, err := svc.SetRunning(c.Request.Context(), running)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func runOnce(svc *controllersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A client disconnect must not abort a pass halfway through its assignments.
		out, err := svc.RunOnce(context.WithoutCancel(c.Request.Context()), pass.TriggerManual)
		if errors.Is(err, controllersvc.ErrConcurrencyRejected) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func pruneOutcomes(svc *controllersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.PruneOutcomes(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	}
}
