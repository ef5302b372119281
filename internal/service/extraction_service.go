package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"quizbank_backend/internal/extract"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"
	"quizbank_backend/pkg/logger"
	"quizbank_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ExtractionService drives the document-to-questions pipeline: read
// the stored file, extract its text, ask the model for questions, and
// persist the result under the questionnaire.
type ExtractionService struct {
	questionnaireRepo *repository.QuestionnaireRepository
	questionRepo      *repository.QuestionRepository
	storage           StorageProvider
	generator         QuestionGenerator
	activitySvc       *ActivityService

	mu       sync.Mutex
	inFlight map[uint]bool
}

func NewExtractionService(
	questionnaireRepo *repository.QuestionnaireRepository,
	questionRepo *repository.QuestionRepository,
	storage StorageProvider,
	generator QuestionGenerator,
	activitySvc *ActivityService,
) *ExtractionService {
	return &ExtractionService{
		questionnaireRepo: questionnaireRepo,
		questionRepo:      questionRepo,
		storage:           storage,
		generator:         generator,
		activitySvc:       activitySvc,
		inFlight:          make(map[uint]bool),
	}
}

// ExtractionResult summarizes one completed extraction run.
type ExtractionResult struct {
	QuestionCount int `json:"question_count"`
	DroppedCount  int `json:"dropped_count"`
}

// acquire registers the questionnaire as in flight. A second caller
// gets ErrExtractionInProgress instead of a duplicate run.
func (s *ExtractionService) acquire(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return util.ErrExtractionInProgress
	}
	s.inFlight[id] = true
	return nil
}

func (s *ExtractionService) release(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// Process runs the full pipeline for one questionnaire, extracting
// only the requested kinds (all six when the list is empty). Prior
// question rows are always replaced, so re-running with the same kinds
// never accumulates duplicates. On failure the questionnaire is left
// in the failed state with the reason recorded, and the error is
// returned.
func (s *ExtractionService) Process(ctx context.Context, questionnaireID uint, kinds []model.QuestionKind) (*ExtractionResult, error) {
	if err := s.acquire(questionnaireID); err != nil {
		return nil, err
	}
	defer s.release(questionnaireID)

	q, err := s.questionnaireRepo.FindByID(questionnaireID)
	if err != nil {
		return nil, err
	}

	q.MarkProcessing()
	if err := s.questionnaireRepo.UpdateExtractionState(q); err != nil {
		return nil, err
	}

	result, err := s.run(ctx, q, kinds)
	if err != nil {
		q.MarkFailed(failureReason(err))
		if updateErr := s.questionnaireRepo.UpdateExtractionState(q); updateErr != nil {
			logger.Log.Error("failed to persist extraction failure",
				zap.Uint("questionnaire_id", q.ID),
				zap.Error(updateErr),
			)
		}
		monitoring.ExtractionCounter.WithLabelValues("failed").Inc()
		logger.Log.Warn("extraction failed",
			zap.Uint("questionnaire_id", q.ID),
			zap.Error(err),
		)
		return nil, err
	}

	q.MarkCompleted()
	if err := s.questionnaireRepo.UpdateExtractionState(q); err != nil {
		return nil, err
	}
	monitoring.ExtractionCounter.WithLabelValues("completed").Inc()

	s.activitySvc.Record(q.UploaderID, model.ActivityExtractionCompleted,
		fmt.Sprintf("Extracted %d questions from %q", result.QuestionCount, q.Title))

	logger.Log.Info("extraction completed",
		zap.Uint("questionnaire_id", q.ID),
		zap.Int("questions", result.QuestionCount),
		zap.Int("dropped", result.DroppedCount),
	)
	return result, nil
}

func (s *ExtractionService) run(ctx context.Context, q *model.Questionnaire, kinds []model.QuestionKind) (*ExtractionResult, error) {
	// Replace, never append. Prior rows are cleared before the pipeline
	// runs so a retry starts from a clean slate even when it fails.
	if err := s.questionRepo.DeleteByQuestionnaire(q.ID); err != nil {
		return nil, err
	}

	file, err := s.storage.Open(ctx, q.FileKey)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}

	text, err := extract.Text(q.OriginalName, data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, util.ErrNoContent
	}

	generated, dropped, err := s.generator.GenerateQuestions(ctx, text, kinds)
	if err != nil {
		return nil, err
	}

	typeMap, err := s.questionRepo.TypeMap()
	if err != nil {
		return nil, err
	}

	rows := make([]model.ExtractedQuestion, 0, len(generated))
	for _, g := range generated {
		qt, ok := typeMap[g.Kind]
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, model.ExtractedQuestion{
			QuestionnaireID: q.ID,
			QuestionTypeID:  qt.ID,
			QuestionText:    g.QuestionText,
			OptionA:         g.OptionA,
			OptionB:         g.OptionB,
			OptionC:         g.OptionC,
			OptionD:         g.OptionD,
			CorrectAnswer:   g.CorrectAnswer,
			Explanation:     g.Explanation,
			Difficulty:      g.Difficulty,
			Points:          g.Points,
		})
	}
	// A document can legitimately yield no questions; the run still
	// completes with a zero count.
	if err := s.questionRepo.CreateBatch(rows); err != nil {
		return nil, err
	}

	return &ExtractionResult{
		QuestionCount: len(rows),
		DroppedCount:  dropped,
	}, nil
}

func failureReason(err error) string {
	switch {
	case strings.Contains(err.Error(), util.ErrNoContent.Error()):
		return "no text content could be extracted from the document"
	case strings.Contains(err.Error(), util.ErrUnsupportedFormat.Error()):
		return "the document format is not supported for extraction"
	case strings.Contains(err.Error(), util.ErrExternalService.Error()):
		return "the question extraction service is unavailable"
	case strings.Contains(err.Error(), util.ErrInvalidAIResponse.Error()):
		return "no questions could be parsed from the document"
	default:
		return "extraction failed"
	}
}
