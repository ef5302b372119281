package service

import (
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
)

// DashboardService aggregates the counters behind the admin and
// teacher landing pages.
type DashboardService struct {
	questionnaireRepo *repository.QuestionnaireRepository
	questionRepo      *repository.QuestionRepository
	teacherRepo       *repository.TeacherRepository
	departmentRepo    *repository.DepartmentRepository
	subjectRepo       *repository.SubjectRepository
	downloadRepo      *repository.DownloadRepository
}

func NewDashboardService(
	questionnaireRepo *repository.QuestionnaireRepository,
	questionRepo *repository.QuestionRepository,
	teacherRepo *repository.TeacherRepository,
	departmentRepo *repository.DepartmentRepository,
	subjectRepo *repository.SubjectRepository,
	downloadRepo *repository.DownloadRepository,
) *DashboardService {
	return &DashboardService{
		questionnaireRepo: questionnaireRepo,
		questionRepo:      questionRepo,
		teacherRepo:       teacherRepo,
		departmentRepo:    departmentRepo,
		subjectRepo:       subjectRepo,
		downloadRepo:      downloadRepo,
	}
}

type AdminDashboard struct {
	TotalQuestionnaires int64                 `json:"total_questionnaires"`
	ExtractedCount      int64                 `json:"extracted_count"`
	TotalQuestions      int64                 `json:"total_questions"`
	ActiveTeachers      int64                 `json:"active_teachers"`
	Departments         int64                 `json:"departments"`
	Subjects            int64                 `json:"subjects"`
	TotalDownloads      int64                 `json:"total_downloads"`
	RecentUploads       []model.Questionnaire `json:"recent_uploads"`
}

func (s *DashboardService) Admin() (*AdminDashboard, error) {
	d := &AdminDashboard{}

	var err error
	if d.TotalQuestionnaires, err = s.questionnaireRepo.Count(); err != nil {
		return nil, err
	}
	if d.ExtractedCount, err = s.questionnaireRepo.CountExtracted(); err != nil {
		return nil, err
	}
	if d.TotalQuestions, err = s.questionRepo.CountAll(); err != nil {
		return nil, err
	}
	if d.ActiveTeachers, err = s.teacherRepo.CountActive(); err != nil {
		return nil, err
	}
	if d.Departments, err = s.departmentRepo.Count(); err != nil {
		return nil, err
	}
	if d.Subjects, err = s.subjectRepo.Count(); err != nil {
		return nil, err
	}
	if d.TotalDownloads, err = s.downloadRepo.CountAll(); err != nil {
		return nil, err
	}
	if d.RecentUploads, err = s.questionnaireRepo.Recent(5, 0); err != nil {
		return nil, err
	}

	return d, nil
}

type TeacherDashboard struct {
	MyQuestionnaires int64                 `json:"my_questionnaires"`
	RecentUploads    []model.Questionnaire `json:"recent_uploads"`
}

func (s *DashboardService) Teacher(userID uint) (*TeacherDashboard, error) {
	d := &TeacherDashboard{}

	var err error
	if d.MyQuestionnaires, err = s.questionnaireRepo.CountByUploader(userID); err != nil {
		return nil, err
	}
	if d.RecentUploads, err = s.questionnaireRepo.Recent(5, userID); err != nil {
		return nil, err
	}

	return d, nil
}
