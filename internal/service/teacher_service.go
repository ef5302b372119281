package service

import (
	"fmt"

	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// TeacherService covers the admin teacher management surface.
type TeacherService struct {
	teacherRepo *repository.TeacherRepository
	userRepo    *repository.UserRepository
	activitySvc *ActivityService
}

func NewTeacherService(
	teacherRepo *repository.TeacherRepository,
	userRepo *repository.UserRepository,
	activitySvc *ActivityService,
) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		userRepo:    userRepo,
		activitySvc: activitySvc,
	}
}

type CreateTeacherInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	EmployeeID   string `json:"employee_id" binding:"required"`
	DepartmentID *uint  `json:"department_id"`
	Phone        string `json:"phone"`
}

// Create provisions the user account and teacher profile together.
func (s *TeacherService) Create(auth AuthContext, input CreateTeacherInput) (*model.TeacherProfile, error) {
	emailTaken, err := s.userRepo.EmailExists(input.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, util.ErrEmailTaken
	}

	employeeTaken, err := s.teacherRepo.EmployeeIDExists(input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employeeTaken {
		return nil, util.ErrDuplicateCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Role:     model.RoleTeacher,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	profile := &model.TeacherProfile{
		UserID:       user.ID,
		EmployeeID:   input.EmployeeID,
		DepartmentID: input.DepartmentID,
		Phone:        input.Phone,
		IsActive:     true,
	}
	if err := s.teacherRepo.Create(profile); err != nil {
		return nil, err
	}

	s.activitySvc.Record(auth.UserID, model.ActivityTeacherCreated,
		fmt.Sprintf("Created teacher account for %s", user.Name))
	return s.teacherRepo.FindByID(profile.ID)
}

func (s *TeacherService) List(filter repository.TeacherFilter, page int) ([]model.TeacherProfile, int64, error) {
	return s.teacherRepo.List(filter, page, util.TeacherPageSize)
}

func (s *TeacherService) Get(id uint) (*model.TeacherProfile, error) {
	return s.teacherRepo.FindByID(id)
}

type UpdateTeacherInput struct {
	Name         string `json:"name" binding:"required"`
	DepartmentID *uint  `json:"department_id"`
	Phone        string `json:"phone"`
	IsActive     *bool  `json:"is_active"`
}

func (s *TeacherService) Update(auth AuthContext, id uint, input UpdateTeacherInput) (*model.TeacherProfile, error) {
	profile, err := s.teacherRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	profile.DepartmentID = input.DepartmentID
	profile.Phone = input.Phone
	if input.IsActive != nil {
		profile.IsActive = *input.IsActive
	}
	if err := s.teacherRepo.Update(profile); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(profile.UserID)
	if err != nil {
		return nil, err
	}
	user.Name = input.Name
	// A deactivated teacher cannot log in.
	user.Disabled = !profile.IsActive
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.activitySvc.Record(auth.UserID, model.ActivityTeacherUpdated,
		fmt.Sprintf("Updated teacher account for %s", user.Name))
	return s.teacherRepo.FindByID(id)
}

// Delete removes the profile and the backing user account. Uploaded
// questionnaires survive; their uploader reference is soft deleted.
func (s *TeacherService) Delete(auth AuthContext, id uint) error {
	profile, err := s.teacherRepo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.teacherRepo.Delete(id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(profile.UserID); err != nil {
		return err
	}

	s.activitySvc.Record(auth.UserID, model.ActivityTeacherDeleted,
		fmt.Sprintf("Deleted teacher account for %s", profile.User.Name))
	return nil
}
