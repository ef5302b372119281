package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"quizbank_backend/internal/config"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"
	"quizbank_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuestionnaireService implements the upload and review workflow.
// Ownership rule throughout: teachers act on their own uploads, admins
// act on everything.
type QuestionnaireService struct {
	questionnaireRepo *repository.QuestionnaireRepository
	questionRepo      *repository.QuestionRepository
	downloadRepo      *repository.DownloadRepository
	storage           StorageProvider
	extraction        *ExtractionService
	activitySvc       *ActivityService
	cfg               *config.Config
}

func NewQuestionnaireService(
	questionnaireRepo *repository.QuestionnaireRepository,
	questionRepo *repository.QuestionRepository,
	downloadRepo *repository.DownloadRepository,
	storage StorageProvider,
	extraction *ExtractionService,
	activitySvc *ActivityService,
	cfg *config.Config,
) *QuestionnaireService {
	return &QuestionnaireService{
		questionnaireRepo: questionnaireRepo,
		questionRepo:      questionRepo,
		downloadRepo:      downloadRepo,
		storage:           storage,
		extraction:        extraction,
		activitySvc:       activitySvc,
		cfg:               cfg,
	}
}

type UploadInput struct {
	Title        string
	Description  string
	DepartmentID uint
	SubjectID    uint
	FileName     string
	FileSize     int64
	ContentType  string
	File         io.Reader

	// QuestionTypeIDs restricts extraction to the selected kinds; empty
	// means all six. AutoExtract controls whether extraction runs right
	// after the upload.
	QuestionTypeIDs []uint
	AutoExtract     bool
}

// UploadResult reports the stored questionnaire together with the
// outcome of the extraction attempt that follows the upload. A failed
// extraction does not fail the upload.
type UploadResult struct {
	Questionnaire *model.Questionnaire `json:"questionnaire"`
	Extraction    *ExtractionResult    `json:"extraction,omitempty"`
}

func (s *QuestionnaireService) Upload(ctx context.Context, auth AuthContext, input UploadInput) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(input.FileName))
	if !util.AllowedUploadExtensions[ext] {
		return nil, util.ErrUnsupportedFormat
	}
	if input.FileSize > s.cfg.MaxUploadBytes() {
		return nil, util.ErrFileTooLarge
	}

	key := "questionnaires/" + model.GenerateUUID() + ext
	if err := s.storage.Save(ctx, key, input.File, input.FileSize, input.ContentType); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	q := &model.Questionnaire{
		Title:            input.Title,
		Description:      input.Description,
		DepartmentID:     input.DepartmentID,
		SubjectID:        input.SubjectID,
		UploaderID:       auth.UserID,
		FileKey:          key,
		OriginalName:     input.FileName,
		FileSize:         input.FileSize,
		ExtractionStatus: model.ExtractionNotStarted,
	}
	if err := s.questionnaireRepo.Create(q); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("failed to clean up stored file", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.activitySvc.Record(auth.UserID, model.ActivityQuestionnaireUpload,
		fmt.Sprintf("Uploaded questionnaire %q", q.Title))

	result := &UploadResult{Questionnaire: q}
	if !input.AutoExtract {
		return result, nil
	}

	kinds, err := s.resolveKinds(input.QuestionTypeIDs)
	if err != nil {
		return nil, err
	}

	extraction, err := s.extraction.Process(ctx, q.ID, kinds)
	if err != nil {
		// The upload stands; the row carries the failure for retry.
		logger.Log.Warn("extraction after upload failed",
			zap.Uint("questionnaire_id", q.ID),
			zap.Error(err),
		)
	} else {
		result.Extraction = extraction
	}

	// Reload to return the final extraction state.
	updated, findErr := s.questionnaireRepo.FindByID(q.ID)
	if findErr == nil {
		result.Questionnaire = updated
	}
	return result, nil
}

// resolveKinds maps selected question type IDs onto kinds. Unknown IDs
// are rejected so a stale form cannot silently narrow the extraction.
func (s *QuestionnaireService) resolveKinds(typeIDs []uint) ([]model.QuestionKind, error) {
	if len(typeIDs) == 0 {
		return nil, nil
	}
	types, err := s.questionRepo.TypesByIDs(typeIDs)
	if err != nil {
		return nil, err
	}
	if len(types) != len(typeIDs) {
		return nil, util.ErrNotFound
	}
	kinds := make([]model.QuestionKind, len(types))
	for i, qt := range types {
		kinds[i] = qt.Name
	}
	return kinds, nil
}

// List scopes the result to the caller's own uploads unless the caller
// is an admin.
func (s *QuestionnaireService) List(auth AuthContext, filter repository.QuestionnaireFilter, page int) ([]model.Questionnaire, int64, error) {
	if !auth.IsAdmin() {
		filter.UploaderID = auth.UserID
	}
	return s.questionnaireRepo.List(filter, page, util.QuestionnairePageSize)
}

// Browse is the shared catalog: every authenticated user sees every
// questionnaire, filterable by department and subject.
func (s *QuestionnaireService) Browse(filter repository.QuestionnaireFilter, page int) ([]model.Questionnaire, int64, error) {
	filter.UploaderID = 0
	return s.questionnaireRepo.List(filter, page, util.BrowsePageSize)
}

func (s *QuestionnaireService) Get(auth AuthContext, id uint) (*model.Questionnaire, error) {
	q, err := s.questionnaireRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(auth, q) {
		return nil, util.ErrPermissionDenied
	}
	return q, nil
}

func (s *QuestionnaireService) canAccess(auth AuthContext, q *model.Questionnaire) bool {
	return auth.IsAdmin() || q.UploaderID == auth.UserID
}

// Download opens the stored file and records an audit row. Browsing
// covers every questionnaire, so downloads are not ownership-gated.
func (s *QuestionnaireService) Download(ctx context.Context, auth AuthContext, id uint, clientIP string) (*model.Questionnaire, io.ReadCloser, error) {
	q, err := s.questionnaireRepo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.storage.Open(ctx, q.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}

	userID := auth.UserID
	entry := &model.Download{
		QuestionnaireID: q.ID,
		UserID:          &userID,
		IPAddress:       clientIP,
	}
	if err := s.downloadRepo.Create(entry); err != nil {
		logger.Log.Warn("failed to record download",
			zap.Uint("questionnaire_id", q.ID),
			zap.Error(err),
		)
	}

	s.activitySvc.Record(auth.UserID, model.ActivityQuestionnaireDownload,
		fmt.Sprintf("Downloaded questionnaire %q", q.Title))

	return q, file, nil
}

type UpdateQuestionnaireInput struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	DepartmentID uint   `json:"department_id" binding:"required"`
	SubjectID    uint   `json:"subject_id" binding:"required"`
}

func (s *QuestionnaireService) Update(auth AuthContext, id uint, input UpdateQuestionnaireInput) (*model.Questionnaire, error) {
	q, err := s.Get(auth, id)
	if err != nil {
		return nil, err
	}

	q.Title = input.Title
	q.Description = input.Description
	q.DepartmentID = input.DepartmentID
	q.SubjectID = input.SubjectID
	if err := s.questionnaireRepo.Update(q); err != nil {
		return nil, err
	}
	return s.questionnaireRepo.FindByID(id)
}

// Delete removes the questionnaire, its questions and the stored
// file.
func (s *QuestionnaireService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	q, err := s.Get(auth, id)
	if err != nil {
		return err
	}

	if err := s.questionRepo.DeleteByQuestionnaire(q.ID); err != nil {
		return err
	}
	if err := s.questionnaireRepo.Delete(q.ID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, q.FileKey); err != nil {
		logger.Log.Warn("failed to delete stored file",
			zap.String("key", q.FileKey),
			zap.Error(err),
		)
	}

	s.activitySvc.Record(auth.UserID, model.ActivityQuestionnaireDelete,
		fmt.Sprintf("Deleted questionnaire %q", q.Title))
	return nil
}

// ReviewData is the review page payload: the question list plus its
// running totals.
type ReviewData struct {
	Questions     []model.ExtractedQuestion `json:"questions"`
	TotalPoints   int                       `json:"total_points"`
	DistinctKinds int                       `json:"distinct_kinds"`
}

// Questions lists the extracted questions for review.
func (s *QuestionnaireService) Questions(auth AuthContext, id uint) (*ReviewData, error) {
	q, err := s.Get(auth, id)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByQuestionnaire(q.ID)
	if err != nil {
		return nil, err
	}

	data := &ReviewData{Questions: questions}
	kinds := make(map[uint]bool)
	for _, question := range questions {
		data.TotalPoints += question.Points
		kinds[question.QuestionTypeID] = true
	}
	data.DistinctKinds = len(kinds)
	return data, nil
}

// ApproveAll marks every pending question of the questionnaire as
// approved and returns how many changed.
func (s *QuestionnaireService) ApproveAll(auth AuthContext, id uint) (int64, error) {
	q, err := s.Get(auth, id)
	if err != nil {
		return 0, err
	}

	approved, err := s.questionRepo.ApproveAllByQuestionnaire(q.ID)
	if err != nil {
		return 0, err
	}

	s.activitySvc.Record(auth.UserID, model.ActivityQuestionsApproved,
		fmt.Sprintf("Approved %d questions in %q", approved, q.Title))
	return approved, nil
}

type UpdateQuestionInput struct {
	QuestionText  string `json:"question_text" binding:"required"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Difficulty    string `json:"difficulty"`
	Points        int    `json:"points"`
	IsApproved    *bool  `json:"is_approved"`
}

func (s *QuestionnaireService) UpdateQuestion(auth AuthContext, questionnaireID, questionID uint, input UpdateQuestionInput) (*model.ExtractedQuestion, error) {
	if _, err := s.Get(auth, questionnaireID); err != nil {
		return nil, err
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, err
	}
	if question.QuestionnaireID != questionnaireID {
		return nil, util.ErrNotFound
	}

	question.QuestionText = input.QuestionText
	question.OptionA = input.OptionA
	question.OptionB = input.OptionB
	question.OptionC = input.OptionC
	question.OptionD = input.OptionD
	question.CorrectAnswer = input.CorrectAnswer
	question.Explanation = input.Explanation
	if input.Difficulty != "" {
		question.Difficulty = input.Difficulty
	}
	if input.Points > 0 {
		question.Points = input.Points
	}
	if input.IsApproved != nil {
		question.IsApproved = *input.IsApproved
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionnaireService) DeleteQuestion(auth AuthContext, questionnaireID, questionID uint) error {
	if _, err := s.Get(auth, questionnaireID); err != nil {
		return err
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return err
	}
	if question.QuestionnaireID != questionnaireID {
		return util.ErrNotFound
	}

	return s.questionRepo.Delete(questionID)
}

// RetryExtraction re-runs the pipeline for a questionnaire whose
// previous attempt failed or needs refreshing. The kind selection may
// differ from the original upload; prior rows are replaced either way.
func (s *QuestionnaireService) RetryExtraction(ctx context.Context, auth AuthContext, id uint, typeIDs []uint) (*ExtractionResult, error) {
	q, err := s.Get(auth, id)
	if err != nil {
		return nil, err
	}

	kinds, err := s.resolveKinds(typeIDs)
	if err != nil {
		return nil, err
	}

	result, err := s.extraction.Process(ctx, q.ID, kinds)
	if err != nil {
		return nil, err
	}

	s.activitySvc.Record(auth.UserID, model.ActivityExtractionRetried,
		fmt.Sprintf("Re-extracted questions from %q", q.Title))
	return result, nil
}

func (s *QuestionnaireService) QuestionTypes() ([]model.QuestionType, error) {
	return s.questionRepo.ListTypes()
}
