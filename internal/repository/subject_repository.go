package repository

import (
	"errors"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/util"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.db.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.Preload("Departments").First(&subject, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) FindByIDs(ids []uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.Where("id IN ?", ids).Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) CodeExists(code string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Subject{}).Where("code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *SubjectRepository) List() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.Order("code ASC").Find(&subjects).Error
	return subjects, err
}

// ListByDepartment returns the subjects assigned to a department,
// ordered by subject code.
func (r *SubjectRepository) ListByDepartment(departmentID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.
		Joins("JOIN subject_departments ON subject_departments.subject_id = subjects.id").
		Where("subject_departments.department_id = ?", departmentID).
		Order("subjects.code ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Update(subject *model.Subject) error {
	return r.db.Save(subject).Error
}

func (r *SubjectRepository) Delete(id uint) error {
	return r.db.Delete(&model.Subject{}, id).Error
}

func (r *SubjectRepository) HasQuestionnaires(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Questionnaire{}).
		Where("subject_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *SubjectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Subject{}).Count(&count).Error
	return count, err
}
