package availability

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainavail "github.com/alanyang/shift-router/internal/domain/availability"
	availsvc "github.com/alanyang/shift-router/internal/service/availability"
)

func Register(rg *gin.RouterGroup, svc *availsvc.Service) {
	rg.GET("", listForDate(svc))
	rg.GET("/:email", getOne(svc))
	rg.PUT("", update(svc))
}

func listForDate(svc *availsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.ForDate(c.Request.Context(), c.Query("date"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func getOne(svc *availsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := svc.Get(c.Request.Context(), c.Param("email"), c.Query("date"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

type updateReq struct {
	OperatorEmail string `json:"operator_email" binding:"required"`
	Date          string `json:"date"`
	Scheduled     bool   `json:"working_today"`
	StartHour     *int   `json:"start_hour" binding:"required"`
	EndHour       *int   `json:"end_hour" binding:"required"`
	Available     bool   `json:"available"`
}

func update(svc *availsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		row, err := svc.Update(c.Request.Context(), availsvc.Update{
			OperatorEmail: req.OperatorEmail,
			Date:          req.Date,
			Scheduled:     req.Scheduled,
			StartHour:     *req.StartHour,
			EndHour:       *req.EndHour,
			Available:     req.Available,
		})
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func statusFor(err error) int {
	if errors.Is(err, domainavail.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
