package repository

import (
	"errors"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/util"

	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(dept *model.Department) error {
	return r.db.Create(dept).Error
}

func (r *DepartmentRepository) FindByID(id uint) (*model.Department, error) {
	var dept model.Department
	err := r.db.Preload("Subjects").First(&dept, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) CodeExists(code string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Department{}).Where("code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *DepartmentRepository) List() ([]model.Department, error) {
	var depts []model.Department
	err := r.db.Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *DepartmentRepository) Update(dept *model.Department) error {
	return r.db.Save(dept).Error
}

func (r *DepartmentRepository) Delete(id uint) error {
	return r.db.Delete(&model.Department{}, id).Error
}

// HasTeachers reports whether any teacher profile still references the
// department, which blocks deletion.
func (r *DepartmentRepository) HasTeachers(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.TeacherProfile{}).
		Where("department_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *DepartmentRepository) HasQuestionnaires(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Questionnaire{}).
		Where("department_id = ?", id).Count(&count).Error
	return count > 0, err
}

// ReplaceSubjects rewrites the department's subject assignment.
func (r *DepartmentRepository) ReplaceSubjects(dept *model.Department, subjects []model.Subject) error {
	return r.db.Model(dept).Association("Subjects").Replace(subjects)
}

func (r *DepartmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Department{}).Count(&count).Error
	return count, err
}
