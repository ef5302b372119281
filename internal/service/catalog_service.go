package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"
	"quizbank_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const subjectCacheTTL = 10 * time.Minute

// CatalogService manages departments and subjects. The department to
// subject assignment is read on every upload form, so that lookup is
// cached in Redis.
type CatalogService struct {
	departmentRepo *repository.DepartmentRepository
	subjectRepo    *repository.SubjectRepository
	activitySvc    *ActivityService
	cache          *redis.Client
}

func NewCatalogService(
	departmentRepo *repository.DepartmentRepository,
	subjectRepo *repository.SubjectRepository,
	activitySvc *ActivityService,
	cache *redis.Client,
) *CatalogService {
	return &CatalogService{
		departmentRepo: departmentRepo,
		subjectRepo:    subjectRepo,
		activitySvc:    activitySvc,
		cache:          cache,
	}
}

type DepartmentInput struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
	SubjectIDs  []uint `json:"subject_ids"`
}

func (s *CatalogService) CreateDepartment(auth AuthContext, input DepartmentInput) (*model.Department, error) {
	exists, err := s.departmentRepo.CodeExists(input.Code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateCode
	}

	dept := &model.Department{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
	}
	if err := s.departmentRepo.Create(dept); err != nil {
		return nil, err
	}

	if len(input.SubjectIDs) > 0 {
		if err := s.assignSubjects(dept, input.SubjectIDs); err != nil {
			return nil, err
		}
	}

	s.activitySvc.Record(auth.UserID, model.ActivityDepartmentCreated,
		fmt.Sprintf("Created department %q", dept.Name))
	return s.departmentRepo.FindByID(dept.ID)
}

func (s *CatalogService) assignSubjects(dept *model.Department, subjectIDs []uint) error {
	subjects, err := s.subjectRepo.FindByIDs(subjectIDs)
	if err != nil {
		return err
	}
	if len(subjects) != len(subjectIDs) {
		return util.ErrNotFound
	}
	if err := s.departmentRepo.ReplaceSubjects(dept, subjects); err != nil {
		return err
	}
	s.invalidateSubjectCache(dept.ID)
	return nil
}

func (s *CatalogService) ListDepartments() ([]model.Department, error) {
	return s.departmentRepo.List()
}

func (s *CatalogService) GetDepartment(id uint) (*model.Department, error) {
	return s.departmentRepo.FindByID(id)
}

func (s *CatalogService) UpdateDepartment(auth AuthContext, id uint, input DepartmentInput) (*model.Department, error) {
	dept, err := s.departmentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	exists, err := s.departmentRepo.CodeExists(input.Code, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateCode
	}

	dept.Name = input.Name
	dept.Code = input.Code
	dept.Description = input.Description
	if err := s.departmentRepo.Update(dept); err != nil {
		return nil, err
	}

	if input.SubjectIDs != nil {
		if err := s.assignSubjects(dept, input.SubjectIDs); err != nil {
			return nil, err
		}
	}

	s.activitySvc.Record(auth.UserID, model.ActivityDepartmentUpdated,
		fmt.Sprintf("Updated department %q", dept.Name))
	return s.departmentRepo.FindByID(id)
}

// DeleteDepartment refuses when teachers or questionnaires still
// reference the department.
func (s *CatalogService) DeleteDepartment(auth AuthContext, id uint) error {
	dept, err := s.departmentRepo.FindByID(id)
	if err != nil {
		return err
	}

	hasTeachers, err := s.departmentRepo.HasTeachers(id)
	if err != nil {
		return err
	}
	hasQuestionnaires, err := s.departmentRepo.HasQuestionnaires(id)
	if err != nil {
		return err
	}
	if hasTeachers || hasQuestionnaires {
		return util.ErrInUse
	}

	if err := s.departmentRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateSubjectCache(id)

	s.activitySvc.Record(auth.UserID, model.ActivityDepartmentDeleted,
		fmt.Sprintf("Deleted department %q", dept.Name))
	return nil
}

type SubjectInput struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

func (s *CatalogService) CreateSubject(auth AuthContext, input SubjectInput) (*model.Subject, error) {
	exists, err := s.subjectRepo.CodeExists(input.Code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateCode
	}

	subject := &model.Subject{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
	}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, err
	}

	s.activitySvc.Record(auth.UserID, model.ActivitySubjectCreated,
		fmt.Sprintf("Created subject %q", subject.Name))
	return subject, nil
}

func (s *CatalogService) ListSubjects() ([]model.Subject, error) {
	return s.subjectRepo.List()
}

func (s *CatalogService) GetSubject(id uint) (*model.Subject, error) {
	return s.subjectRepo.FindByID(id)
}

// SubjectsByDepartment serves the upload form dropdown, cache first.
func (s *CatalogService) SubjectsByDepartment(ctx context.Context, departmentID uint) ([]model.Subject, error) {
	key := subjectCacheKey(departmentID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var subjects []model.Subject
			if err := json.Unmarshal([]byte(cached), &subjects); err == nil {
				return subjects, nil
			}
		}
	}

	if _, err := s.departmentRepo.FindByID(departmentID); err != nil {
		return nil, err
	}

	subjects, err := s.subjectRepo.ListByDepartment(departmentID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(subjects); err == nil {
			if err := s.cache.Set(ctx, key, payload, subjectCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache subjects", zap.Error(err))
			}
		}
	}

	return subjects, nil
}

func (s *CatalogService) UpdateSubject(auth AuthContext, id uint, input SubjectInput) (*model.Subject, error) {
	subject, err := s.subjectRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	exists, err := s.subjectRepo.CodeExists(input.Code, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateCode
	}

	subject.Name = input.Name
	subject.Code = input.Code
	subject.Description = input.Description
	if err := s.subjectRepo.Update(subject); err != nil {
		return nil, err
	}

	// The subject may appear in any department's cached list.
	s.invalidateAllSubjectCaches(subject)

	s.activitySvc.Record(auth.UserID, model.ActivitySubjectUpdated,
		fmt.Sprintf("Updated subject %q", subject.Name))
	return subject, nil
}

func (s *CatalogService) DeleteSubject(auth AuthContext, id uint) error {
	subject, err := s.subjectRepo.FindByID(id)
	if err != nil {
		return err
	}

	inUse, err := s.subjectRepo.HasQuestionnaires(id)
	if err != nil {
		return err
	}
	if inUse {
		return util.ErrInUse
	}

	if err := s.subjectRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateAllSubjectCaches(subject)

	s.activitySvc.Record(auth.UserID, model.ActivitySubjectDeleted,
		fmt.Sprintf("Deleted subject %q", subject.Name))
	return nil
}

func subjectCacheKey(departmentID uint) string {
	return fmt.Sprintf("catalog:subjects:dept:%d", departmentID)
}

func (s *CatalogService) invalidateSubjectCache(departmentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(context.Background(), subjectCacheKey(departmentID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate subject cache",
			zap.Uint("department_id", departmentID),
			zap.Error(err),
		)
	}
}

func (s *CatalogService) invalidateAllSubjectCaches(subject *model.Subject) {
	for _, dept := range subject.Departments {
		s.invalidateSubjectCache(dept.ID)
	}
}
