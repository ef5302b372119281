package service

import (
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/pkg/logger"

	"go.uber.org/zap"
)

const activityFeedLimit = 50

type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Record writes an activity entry. Failures are logged and swallowed;
// the feed is informational and must never fail the operation that
// produced it.
func (s *ActivityService) Record(userID uint, activityType, description string) {
	entry := &model.ActivityLog{
		ActivityType: activityType,
		Description:  description,
	}
	if userID != 0 {
		entry.UserID = &userID
	}
	if err := s.activityRepo.Create(entry); err != nil {
		logger.Log.Warn("failed to record activity",
			zap.String("type", activityType),
			zap.Error(err),
		)
	}
}

// Feed returns the recent activity visible to the caller. Admins see
// everything; teachers see only their own entries.
func (s *ActivityService) Feed(auth AuthContext) ([]model.ActivityLog, error) {
	if auth.IsAdmin() {
		return s.activityRepo.List(0, activityFeedLimit)
	}
	return s.activityRepo.List(auth.UserID, activityFeedLimit)
}

func (s *ActivityService) UnreadCount(auth AuthContext) (int64, error) {
	if auth.IsAdmin() {
		return s.activityRepo.UnreadCount(0)
	}
	return s.activityRepo.UnreadCount(auth.UserID)
}

func (s *ActivityService) MarkRead(id uint) error {
	return s.activityRepo.MarkRead(id)
}

func (s *ActivityService) MarkAllRead(auth AuthContext) error {
	if auth.IsAdmin() {
		return s.activityRepo.MarkAllRead(0)
	}
	return s.activityRepo.MarkAllRead(auth.UserID)
}
