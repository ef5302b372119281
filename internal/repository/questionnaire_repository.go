package repository

import (
	"errors"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{db: db}
}

// QuestionnaireFilter narrows the questionnaire listing. UploaderID set
// to a non-zero value scopes the result to one teacher's uploads.
type QuestionnaireFilter struct {
	Search       string
	DepartmentID uint
	SubjectID    uint
	UploaderID   uint
	Status       model.ExtractionStatus
}

func (r *QuestionnaireRepository) Create(q *model.Questionnaire) error {
	return r.db.Create(q).Error
}

func (r *QuestionnaireRepository) FindByID(id uint) (*model.Questionnaire, error) {
	var q model.Questionnaire
	err := r.db.
		Preload("Department").
		Preload("Subject").
		Preload("Uploader").
		First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionnaireRepository) List(filter QuestionnaireFilter, page, pageSize int) ([]model.Questionnaire, int64, error) {
	query := r.db.Model(&model.Questionnaire{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR original_name LIKE ?", like, like, like)
	}
	if filter.DepartmentID != 0 {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.SubjectID != 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.UploaderID != 0 {
		query = query.Where("uploader_id = ?", filter.UploaderID)
	}
	if filter.Status != "" {
		query = query.Where("extraction_status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Questionnaire
	err := query.
		Preload("Department").
		Preload("Subject").
		Preload("Uploader").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *QuestionnaireRepository) Update(q *model.Questionnaire) error {
	return r.db.Save(q).Error
}

// UpdateExtractionState persists only the extraction bookkeeping
// columns, so concurrent metadata edits are not clobbered.
func (r *QuestionnaireRepository) UpdateExtractionState(q *model.Questionnaire) error {
	return r.db.Model(q).Select("extraction_status", "is_extracted", "extraction_error").
		Updates(map[string]interface{}{
			"extraction_status": q.ExtractionStatus,
			"is_extracted":      q.IsExtracted,
			"extraction_error":  q.ExtractionError,
		}).Error
}

func (r *QuestionnaireRepository) Delete(id uint) error {
	return r.db.Delete(&model.Questionnaire{}, id).Error
}

func (r *QuestionnaireRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Questionnaire{}).Count(&count).Error
	return count, err
}

func (r *QuestionnaireRepository) CountByUploader(uploaderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Questionnaire{}).
		Where("uploader_id = ?", uploaderID).Count(&count).Error
	return count, err
}

func (r *QuestionnaireRepository) CountExtracted() (int64, error) {
	var count int64
	err := r.db.Model(&model.Questionnaire{}).
		Where("is_extracted = ?", true).Count(&count).Error
	return count, err
}

// Recent returns the newest uploads for dashboard panels.
func (r *QuestionnaireRepository) Recent(limit int, uploaderID uint) ([]model.Questionnaire, error) {
	query := r.db.Model(&model.Questionnaire{}).
		Preload("Department").
		Preload("Subject").
		Preload("Uploader").
		Order("created_at DESC").
		Limit(limit)
	if uploaderID != 0 {
		query = query.Where("uploader_id = ?", uploaderID)
	}

	var items []model.Questionnaire
	err := query.Find(&items).Error
	return items, err
}
