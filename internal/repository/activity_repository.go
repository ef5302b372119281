package repository

import (
	"quizbank_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(entry *model.ActivityLog) error {
	return r.db.Create(entry).Error
}

// List returns the newest activity entries. A non-zero userID scopes
// the feed to one user's own activity.
func (r *ActivityRepository) List(userID uint, limit int) ([]model.ActivityLog, error) {
	query := r.db.Model(&model.ActivityLog{}).
		Preload("User").
		Order("created_at DESC").
		Limit(limit)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var entries []model.ActivityLog
	err := query.Find(&entries).Error
	return entries, err
}

func (r *ActivityRepository) UnreadCount(userID uint) (int64, error) {
	query := r.db.Model(&model.ActivityLog{}).Where("is_read = ?", false)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *ActivityRepository) MarkRead(id uint) error {
	return r.db.Model(&model.ActivityLog{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *ActivityRepository) MarkAllRead(userID uint) error {
	query := r.db.Model(&model.ActivityLog{}).Where("is_read = ?", false)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	return query.Update("is_read", true).Error
}
