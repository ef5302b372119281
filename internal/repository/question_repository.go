package repository

import (
	"errors"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListTypes() ([]model.QuestionType, error) {
	var types []model.QuestionType
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&types).Error
	return types, err
}

// TypesByIDs resolves question type rows from their IDs, used to map
// the kinds a caller requested for extraction.
func (r *QuestionRepository) TypesByIDs(ids []uint) ([]model.QuestionType, error) {
	var types []model.QuestionType
	err := r.db.Where("id IN ?", ids).Find(&types).Error
	return types, err
}

func (r *QuestionRepository) FindTypeByName(name model.QuestionKind) (*model.QuestionType, error) {
	var qt model.QuestionType
	err := r.db.Where("name = ?", name).First(&qt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &qt, nil
}

// TypeMap loads the full kind-to-type lookup used when storing a batch
// of extracted questions.
func (r *QuestionRepository) TypeMap() (map[model.QuestionKind]*model.QuestionType, error) {
	var types []model.QuestionType
	if err := r.db.Find(&types).Error; err != nil {
		return nil, err
	}
	m := make(map[model.QuestionKind]*model.QuestionType, len(types))
	for i := range types {
		m[types[i].Name] = &types[i]
	}
	return m, nil
}

func (r *QuestionRepository) CreateBatch(questions []model.ExtractedQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.ExtractedQuestion, error) {
	var q model.ExtractedQuestion
	err := r.db.Preload("QuestionType").First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByQuestionnaire(questionnaireID uint) ([]model.ExtractedQuestion, error) {
	var questions []model.ExtractedQuestion
	err := r.db.Preload("QuestionType").
		Where("questionnaire_id = ?", questionnaireID).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByQuestionnaire(questionnaireID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExtractedQuestion{}).
		Where("questionnaire_id = ?", questionnaireID).Count(&count).Error
	return count, err
}

// DeleteByQuestionnaire removes every question row of a questionnaire.
// Retry runs this before re-extracting so attempts never accumulate.
func (r *QuestionRepository) DeleteByQuestionnaire(questionnaireID uint) error {
	return r.db.Unscoped().
		Where("questionnaire_id = ?", questionnaireID).
		Delete(&model.ExtractedQuestion{}).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.db.Delete(&model.ExtractedQuestion{}, id).Error
}

func (r *QuestionRepository) Update(q *model.ExtractedQuestion) error {
	return r.db.Save(q).Error
}

func (r *QuestionRepository) ApproveAllByQuestionnaire(questionnaireID uint) (int64, error) {
	result := r.db.Model(&model.ExtractedQuestion{}).
		Where("questionnaire_id = ? AND is_approved = ?", questionnaireID, false).
		Update("is_approved", true)
	return result.RowsAffected, result.Error
}

func (r *QuestionRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.ExtractedQuestion{}).Count(&count).Error
	return count, err
}
