package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quizbank_backend/internal/config"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"
)

func newQuestionnaireService(f *fixture, gen QuestionGenerator) *QuestionnaireService {
	cfg := &config.Config{}
	cfg.Upload.MaxSizeMB = 10

	activitySvc := NewActivityService(repository.NewActivityRepository(f.db))
	extraction := NewExtractionService(f.questionnaireRepo, f.questionRepo, f.storage, gen, activitySvc)
	return NewQuestionnaireService(
		f.questionnaireRepo, f.questionRepo,
		repository.NewDownloadRepository(f.db),
		f.storage, extraction, activitySvc, cfg,
	)
}

func teacherAuth(f *fixture) AuthContext {
	return AuthContext{UserID: f.teacher.ID, Role: model.RoleTeacher}
}

func adminAuth(f *fixture) AuthContext {
	return AuthContext{UserID: f.admin.ID, Role: model.RoleAdmin}
}

func uploadInput(name string, size int64, content string) UploadInput {
	return UploadInput{
		Title:        "Weekly Quiz",
		DepartmentID: 1,
		SubjectID:    1,
		FileName:     name,
		FileSize:     size,
		File:         strings.NewReader(content),
		AutoExtract:  true,
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{questions: sampleQuestions()})

	_, err := svc.Upload(context.Background(), teacherAuth(f), uploadInput("quiz.exe", 100, "MZ"))
	if !errors.Is(err, util.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{questions: sampleQuestions()})

	input := uploadInput("quiz.txt", 10*1024*1024+1, "content")
	_, err := svc.Upload(context.Background(), teacherAuth(f), input)
	if !errors.Is(err, util.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUploadAcceptsExactSizeLimit(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{questions: sampleQuestions()})

	input := uploadInput("quiz.txt", 10*1024*1024, "1. Question one?")
	input.DepartmentID = f.department.ID
	input.SubjectID = f.subject.ID

	result, err := svc.Upload(context.Background(), teacherAuth(f), input)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if result.Questionnaire.ID == 0 {
		t.Error("questionnaire was not persisted")
	}
}

func TestUploadRunsExtraction(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newQuestionnaireService(f, gen)

	input := uploadInput("quiz.txt", 20, "1. Question one?")
	input.DepartmentID = f.department.ID
	input.SubjectID = f.subject.ID

	result, err := svc.Upload(context.Background(), teacherAuth(f), input)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if result.Extraction == nil || result.Extraction.QuestionCount != 2 {
		t.Fatalf("extraction result = %+v, want 2 questions", result.Extraction)
	}
	if result.Questionnaire.ExtractionStatus != model.ExtractionCompleted {
		t.Errorf("status = %s, want completed", result.Questionnaire.ExtractionStatus)
	}
}

func TestUploadSurvivesExtractionFailure(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{err: util.ErrExternalService})

	input := uploadInput("quiz.txt", 20, "1. Question one?")
	input.DepartmentID = f.department.ID
	input.SubjectID = f.subject.ID

	result, err := svc.Upload(context.Background(), teacherAuth(f), input)
	if err != nil {
		t.Fatalf("upload must succeed even when extraction fails, got %v", err)
	}
	if result.Extraction != nil {
		t.Error("failed extraction must not report a result")
	}
	if result.Questionnaire.ExtractionStatus != model.ExtractionFailed {
		t.Errorf("status = %s, want failed", result.Questionnaire.ExtractionStatus)
	}
	if result.Questionnaire.ExtractionError == "" {
		t.Error("the failure reason must be recorded on the questionnaire")
	}
}

func TestUploadSkipsExtractionWhenDisabled(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newQuestionnaireService(f, gen)

	input := uploadInput("quiz.txt", 20, "1. Question one?")
	input.DepartmentID = f.department.ID
	input.SubjectID = f.subject.ID
	input.AutoExtract = false

	result, err := svc.Upload(context.Background(), teacherAuth(f), input)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0 when auto extract is off", gen.calls)
	}
	if result.Questionnaire.ExtractionStatus != model.ExtractionNotStarted {
		t.Errorf("status = %s, want not_started", result.Questionnaire.ExtractionStatus)
	}
}

func TestUploadPassesRequestedKinds(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newQuestionnaireService(f, gen)

	mc, err := f.questionRepo.FindTypeByName(model.MultipleChoice)
	if err != nil {
		t.Fatal(err)
	}

	input := uploadInput("quiz.txt", 20, "1. Question one?")
	input.DepartmentID = f.department.ID
	input.SubjectID = f.subject.ID
	input.QuestionTypeIDs = []uint{mc.ID}

	if _, err := svc.Upload(context.Background(), teacherAuth(f), input); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(gen.lastKinds) != 1 || gen.lastKinds[0] != model.MultipleChoice {
		t.Errorf("generator kinds = %v, want [multiple_choice]", gen.lastKinds)
	}
}

func TestUploadRejectsUnknownQuestionTypeID(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{questions: sampleQuestions()})

	input := uploadInput("quiz.txt", 20, "1. Question one?")
	input.DepartmentID = f.department.ID
	input.SubjectID = f.subject.ID
	input.QuestionTypeIDs = []uint{9999}

	if _, err := svc.Upload(context.Background(), teacherAuth(f), input); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown type ID, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{questions: sampleQuestions()})

	q := f.newQuestionnaire(t, "content")

	other := &model.User{Name: "Bob Reyes", Email: "bob@example.edu", Password: "x", Role: model.RoleTeacher}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(AuthContext{UserID: other.ID, Role: model.RoleTeacher}, q.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("another teacher got %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Get(teacherAuth(f), q.ID); err != nil {
		t.Errorf("owner got %v, want access", err)
	}
	if _, err := svc.Get(adminAuth(f), q.ID); err != nil {
		t.Errorf("admin got %v, want access", err)
	}
}

func TestListScopesTeachersToOwnUploads(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{questions: sampleQuestions()})

	f.newQuestionnaire(t, "mine")

	other := &model.User{Name: "Bob Reyes", Email: "bob@example.edu", Password: "x", Role: model.RoleTeacher}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatal(err)
	}
	theirs := f.newQuestionnaire(t, "theirs")
	theirs.UploaderID = other.ID
	if err := f.questionnaireRepo.Update(theirs); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.List(teacherAuth(f), repository.QuestionnaireFilter{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("teacher sees %d items (total %d), want 1", len(items), total)
	}

	_, total, err = svc.List(adminAuth(f), repository.QuestionnaireFilter{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("admin sees total %d, want 2", total)
	}
}

func TestBrowseSharesAllUploads(t *testing.T) {
	f := newFixture(t)
	svc := newQuestionnaireService(f, &fakeGenerator{questions: sampleQuestions()})

	f.newQuestionnaire(t, "mine")

	other := &model.User{Name: "Bob Reyes", Email: "bob@example.edu", Password: "x", Role: model.RoleTeacher}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatal(err)
	}
	theirs := f.newQuestionnaire(t, "theirs")
	theirs.UploaderID = other.ID
	if err := f.questionnaireRepo.Update(theirs); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.Browse(repository.QuestionnaireFilter{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("browse sees %d items (total %d), want 2", len(items), total)
	}
}

func TestQuestionsReportsReviewTotals(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newQuestionnaireService(f, gen)

	q := f.newQuestionnaire(t, "1. Question one?")
	extraction := NewExtractionService(f.questionnaireRepo, f.questionRepo, f.storage, gen,
		NewActivityService(repository.NewActivityRepository(f.db)))
	if _, err := extraction.Process(context.Background(), q.ID, nil); err != nil {
		t.Fatal(err)
	}

	data, err := svc.Questions(teacherAuth(f), q.ID)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(data.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(data.Questions))
	}
	if data.TotalPoints != 6 {
		t.Errorf("TotalPoints = %d, want 6", data.TotalPoints)
	}
	if data.DistinctKinds != 2 {
		t.Errorf("DistinctKinds = %d, want 2", data.DistinctKinds)
	}
}

func TestRetryExtractionWithSelectedTypes(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newQuestionnaireService(f, gen)

	q := f.newQuestionnaire(t, "1. Question one?")
	extraction := NewExtractionService(f.questionnaireRepo, f.questionRepo, f.storage, gen,
		NewActivityService(repository.NewActivityRepository(f.db)))
	if _, err := extraction.Process(context.Background(), q.ID, nil); err != nil {
		t.Fatal(err)
	}

	essay, err := f.questionRepo.FindTypeByName(model.Essay)
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.RetryExtraction(context.Background(), teacherAuth(f), q.ID, []uint{essay.ID})
	if err != nil {
		t.Fatalf("RetryExtraction: %v", err)
	}
	if len(gen.lastKinds) != 1 || gen.lastKinds[0] != model.Essay {
		t.Errorf("generator kinds = %v, want [essay]", gen.lastKinds)
	}

	// Rows are replaced, never appended.
	count, _ := f.questionRepo.CountByQuestionnaire(q.ID)
	if int(count) != result.QuestionCount {
		t.Errorf("stored questions = %d, want %d", count, result.QuestionCount)
	}
}

func TestDeleteRemovesQuestionsAndFile(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newQuestionnaireService(f, gen)

	q := f.newQuestionnaire(t, "1. Question one?")
	extraction := NewExtractionService(f.questionnaireRepo, f.questionRepo, f.storage, gen,
		NewActivityService(repository.NewActivityRepository(f.db)))
	if _, err := extraction.Process(context.Background(), q.ID, nil); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(context.Background(), teacherAuth(f), q.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := f.questionnaireRepo.FindByID(q.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("questionnaire lookup after delete = %v, want ErrNotFound", err)
	}
	count, _ := f.questionRepo.CountByQuestionnaire(q.ID)
	if count != 0 {
		t.Errorf("questions after delete = %d, want 0", count)
	}
	if _, ok := f.storage.files[q.FileKey]; ok {
		t.Error("stored file must be removed with the questionnaire")
	}
}

func TestApproveAllMarksEveryQuestion(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{questions: sampleQuestions()}
	svc := newQuestionnaireService(f, gen)

	q := f.newQuestionnaire(t, "1. Question one?")
	extraction := NewExtractionService(f.questionnaireRepo, f.questionRepo, f.storage, gen,
		NewActivityService(repository.NewActivityRepository(f.db)))
	if _, err := extraction.Process(context.Background(), q.ID, nil); err != nil {
		t.Fatal(err)
	}

	approved, err := svc.ApproveAll(teacherAuth(f), q.ID)
	if err != nil {
		t.Fatalf("ApproveAll: %v", err)
	}
	if approved != 2 {
		t.Errorf("approved = %d, want 2", approved)
	}

	// A second pass finds nothing left to approve.
	approved, err = svc.ApproveAll(teacherAuth(f), q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if approved != 0 {
		t.Errorf("second pass approved = %d, want 0", approved)
	}
}
