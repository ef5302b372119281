package repository

import (
	"errors"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/util"

	"gorm.io/gorm"
)

type TeacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// TeacherFilter narrows the admin teacher listing.
type TeacherFilter struct {
	Search       string
	DepartmentID uint
	ActiveOnly   bool
}

func (r *TeacherRepository) Create(profile *model.TeacherProfile) error {
	return r.db.Create(profile).Error
}

func (r *TeacherRepository) FindByID(id uint) (*model.TeacherProfile, error) {
	var profile model.TeacherProfile
	err := r.db.Preload("User").Preload("Department").First(&profile, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TeacherRepository) FindByUserID(userID uint) (*model.TeacherProfile, error) {
	var profile model.TeacherProfile
	err := r.db.Preload("User").Preload("Department").
		Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TeacherRepository) EmployeeIDExists(employeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.TeacherProfile{}).
		Where("employee_id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

// List returns one page of teacher profiles ordered by newest first,
// plus the total match count.
func (r *TeacherRepository) List(filter TeacherFilter, page, pageSize int) ([]model.TeacherProfile, int64, error) {
	query := r.db.Model(&model.TeacherProfile{}).
		Joins("JOIN users ON users.id = teacher_profiles.user_id")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"users.name LIKE ? OR users.email LIKE ? OR teacher_profiles.employee_id LIKE ?",
			like, like, like,
		)
	}
	if filter.DepartmentID != 0 {
		query = query.Where("teacher_profiles.department_id = ?", filter.DepartmentID)
	}
	if filter.ActiveOnly {
		query = query.Where("teacher_profiles.is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []model.TeacherProfile
	err := query.Preload("User").Preload("Department").
		Order("teacher_profiles.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *TeacherRepository) Update(profile *model.TeacherProfile) error {
	return r.db.Save(profile).Error
}

func (r *TeacherRepository) Delete(id uint) error {
	return r.db.Delete(&model.TeacherProfile{}, id).Error
}

func (r *TeacherRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.TeacherProfile{}).
		Where("is_active = ?", true).Count(&count).Error
	return count, err
}
