package controller

import (
	"quizbank_backend/internal/service"
	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	activitySvc *service.ActivityService
}

func NewActivityController(activitySvc *service.ActivityService) *ActivityController {
	return &ActivityController{activitySvc: activitySvc}
}

// Feed godoc
// @Summary Recent activity feed
// @Description Teachers see their own activity; admins see everything.
// @Tags activity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /activity [get]
func (ctl *ActivityController) Feed(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	entries, err := ctl.activitySvc.Feed(auth)
	if err != nil {
		respondServiceError(c, "load activity feed", err)
		return
	}
	util.Success(c, entries)
}

// UnreadCount godoc
// @Summary Count unread activity entries
// @Tags activity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /activity/unread-count [get]
func (ctl *ActivityController) UnreadCount(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	count, err := ctl.activitySvc.UnreadCount(auth)
	if err != nil {
		respondServiceError(c, "count unread activity", err)
		return
	}
	util.Success(c, gin.H{"unread": count})
}

// MarkRead godoc
// @Summary Mark one activity entry as read
// @Tags activity
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity entry ID"
// @Success 200 {object} util.Response
// @Router /activity/{id}/read [post]
func (ctl *ActivityController) MarkRead(c *gin.Context) {
	id, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	if err := ctl.activitySvc.MarkRead(id); err != nil {
		respondServiceError(c, "mark activity read", err)
		return
	}
	util.SuccessWithMessage(c, "marked as read", nil)
}

// MarkAllRead godoc
// @Summary Mark all visible activity entries as read
// @Tags activity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /activity/read-all [post]
func (ctl *ActivityController) MarkAllRead(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		util.Unauthorized(c, "authentication required")
		return
	}

	if err := ctl.activitySvc.MarkAllRead(auth); err != nil {
		respondServiceError(c, "mark all activity read", err)
		return
	}
	util.SuccessWithMessage(c, "all marked as read", nil)
}
