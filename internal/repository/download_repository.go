package repository

import (
	"quizbank_backend/internal/model"

	"gorm.io/gorm"
)

type DownloadRepository struct {
	db *gorm.DB
}

func NewDownloadRepository(db *gorm.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

func (r *DownloadRepository) Create(d *model.Download) error {
	return r.db.Create(d).Error
}

func (r *DownloadRepository) CountByQuestionnaire(questionnaireID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Download{}).
		Where("questionnaire_id = ?", questionnaireID).Count(&count).Error
	return count, err
}

func (r *DownloadRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Download{}).Count(&count).Error
	return count, err
}
