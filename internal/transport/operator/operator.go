package operator

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainoperator "github.com/alanyang/shift-router/internal/domain/operator"
	operatorsvc "github.com/alanyang/shift-router/internal/service/operator"
)

func Register(rg *gin.RouterGroup, svc *operatorsvc.Service) {
	rg.GET("", listOperators(svc))
	rg.POST("", createOperator(svc))
	rg.POST("/:id/deactivate", setActive(svc, false))
	rg.POST("/:id/activate", setActive(svc, true))
}

func listOperators(svc *operatorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ops, err := svc.List(c.Request.Context(), c.Query("active") == "true")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if ops == nil {
			ops = []domainoperator.Operator{}
		}
		c.JSON(http.StatusOK, ops)
	}
}

type createReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func createOperator(svc *operatorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		op, err := svc.Create(c.Request.Context(), req.Name, req.Email)
		switch {
		case errors.Is(err, domainoperator.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, domainoperator.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, op)
	}
}

func setActive(svc *operatorsvc.Service, active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if active {
			err = svc.Activate(c.Request.Context(), id)
		} else {
			err = svc.Deactivate(c.Request.Context(), id)
		}
		if errors.Is(err, domainoperator.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
