package service

import (
	"context"
	"errors"
	"testing"

	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"
)

func newExtractionService(f *fixture, gen QuestionGenerator) *ExtractionService {
	activitySvc := NewActivityService(repository.NewActivityRepository(f.db))
	return NewExtractionService(f.questionnaireRepo, f.questionRepo, f.storage, gen, activitySvc)
}

func TestProcessStoresQuestionsAndCompletes(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions(), dropped: 1}
	svc := newExtractionService(f, gen)

	q := f.newQuestionnaire(t, "1. Which structure gives O(1) amortized append?")

	result, err := svc.Process(context.Background(), q.ID, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.QuestionCount != 2 {
		t.Errorf("QuestionCount = %d, want 2", result.QuestionCount)
	}
	if result.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1", result.DroppedCount)
	}

	stored, err := f.questionnaireRepo.FindByID(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ExtractionStatus != model.ExtractionCompleted {
		t.Errorf("status = %s, want completed", stored.ExtractionStatus)
	}
	if !stored.IsExtracted {
		t.Error("IsExtracted should be true after a completed run")
	}
	if stored.ExtractionError != "" {
		t.Errorf("ExtractionError = %q, want empty", stored.ExtractionError)
	}

	count, err := f.questionRepo.CountByQuestionnaire(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("stored questions = %d, want 2", count)
	}
}

func TestProcessRetryReplacesRows(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newExtractionService(f, gen)

	q := f.newQuestionnaire(t, "question text")

	for i := 0; i < 2; i++ {
		if _, err := svc.Process(context.Background(), q.ID, nil); err != nil {
			t.Fatalf("Process run %d: %v", i+1, err)
		}
	}

	count, err := f.questionRepo.CountByQuestionnaire(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("questions after two runs = %d, want 2 (rows must be replaced, not appended)", count)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2", gen.calls)
	}
}

func TestProcessZeroQuestionsCompletes(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{}
	svc := newExtractionService(f, gen)

	q := f.newQuestionnaire(t, "no questions in here, just prose")

	result, err := svc.Process(context.Background(), q.ID, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.QuestionCount != 0 {
		t.Errorf("QuestionCount = %d, want 0", result.QuestionCount)
	}

	stored, err := f.questionnaireRepo.FindByID(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ExtractionStatus != model.ExtractionCompleted {
		t.Errorf("status = %s, want completed for a zero-question run", stored.ExtractionStatus)
	}
	if !stored.IsExtracted {
		t.Error("IsExtracted should be true even with zero questions")
	}
	if stored.ExtractionError != "" {
		t.Errorf("ExtractionError = %q, want empty", stored.ExtractionError)
	}
}

func TestProcessFailedRetryClearsPriorRows(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newExtractionService(f, gen)

	q := f.newQuestionnaire(t, "question text")

	if _, err := svc.Process(context.Background(), q.ID, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	gen.err = util.ErrExternalService
	if _, err := svc.Process(context.Background(), q.ID, nil); err == nil {
		t.Fatal("second run should fail")
	}

	count, err := f.questionRepo.CountByQuestionnaire(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("rows after failed retry = %d, want 0 (prior rows are cleared before the pipeline runs)", count)
	}
}

func TestProcessGeneratorFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{err: util.ErrExternalService}
	svc := newExtractionService(f, gen)

	q := f.newQuestionnaire(t, "question text")

	_, err := svc.Process(context.Background(), q.ID, nil)
	if !errors.Is(err, util.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}

	stored, err := f.questionnaireRepo.FindByID(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ExtractionStatus != model.ExtractionFailed {
		t.Errorf("status = %s, want failed", stored.ExtractionStatus)
	}
	if stored.IsExtracted {
		t.Error("IsExtracted must stay false after a failed run")
	}
	if stored.ExtractionError == "" {
		t.Error("a failed run must record a reason")
	}

	count, _ := f.questionRepo.CountByQuestionnaire(q.ID)
	if count != 0 {
		t.Errorf("questions after failure = %d, want 0", count)
	}
}

func TestProcessEmptyDocumentFails(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newExtractionService(f, gen)

	q := f.newQuestionnaire(t, "   \n\t  ")

	_, err := svc.Process(context.Background(), q.ID, nil)
	if !errors.Is(err, util.ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("generator must not be called for an empty document")
	}

	stored, _ := f.questionnaireRepo.FindByID(q.ID)
	if stored.ExtractionStatus != model.ExtractionFailed {
		t.Errorf("status = %s, want failed", stored.ExtractionStatus)
	}
}

func TestProcessRejectsConcurrentRun(t *testing.T) {
	f := newFixture(t)
	svc := newExtractionService(f, &fakeGenerator{questions: sampleQuestions()})

	q := f.newQuestionnaire(t, "question text")

	if err := svc.acquire(q.ID); err != nil {
		t.Fatal(err)
	}
	defer svc.release(q.ID)

	_, err := svc.Process(context.Background(), q.ID, nil)
	if !errors.Is(err, util.ErrExtractionInProgress) {
		t.Fatalf("expected ErrExtractionInProgress, got %v", err)
	}
}

func TestProcessDropsUnknownTypeRows(t *testing.T) {
	f := newFixture(t)

	// The generator interface already filters unknown kinds; this guards
	// the second line of defense when the kind has no database row.
	questions := sampleQuestions()
	questions = append(questions, GeneratedQuestion{
		Kind:         model.QuestionKind("riddle"),
		QuestionText: "What walks on four legs in the morning?",
	})
	svc := newExtractionService(f, &fakeGenerator{questions: questions})

	q := f.newQuestionnaire(t, "question text")

	result, err := svc.Process(context.Background(), q.ID, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.QuestionCount != 2 {
		t.Errorf("QuestionCount = %d, want 2", result.QuestionCount)
	}
	if result.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1", result.DroppedCount)
	}
}
