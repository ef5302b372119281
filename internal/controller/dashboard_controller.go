package controller

import (
	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	dashboardSvc *service.DashboardService
}

func NewDashboardController(dashboardSvc *service.DashboardService) *DashboardController {
	return &DashboardController{dashboardSvc: dashboardSvc}
}

// Admin godoc
// @Summary Admin dashboard counters
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /dashboard/admin [get]
func (ctl *DashboardController) Admin(c *gin.Context) {
	data, err := ctl.dashboardSvc.Admin()
	if err != nil {
		respondServiceError(c, "load admin dashboard", err)
		return
	}
	util.Success(c, data)
}

// Teacher godoc
// @Summary Teacher dashboard counters
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /dashboard/teacher [get]
func (ctl *DashboardController) Teacher(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	data, err := ctl.dashboardSvc.Teacher(auth.UserID)
	if err != nil {
		respondServiceError(c, "load teacher dashboard", err)
		return
	}
	util.Success(c, data)
}
