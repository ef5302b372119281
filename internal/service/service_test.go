package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/pkg/database"
	"quizbank_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// memStorage keeps stored files in a map.
type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (s *memStorage) Save(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.files[key] = data
	return nil
}

func (s *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, errors.New("no such key: " + key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	delete(s.files, key)
	return nil
}

// fakeGenerator returns canned questions without calling any model.
type fakeGenerator struct {
	questions []GeneratedQuestion
	dropped   int
	err       error
	calls     int
	lastKinds []model.QuestionKind
}

func (g *fakeGenerator) GenerateQuestions(_ context.Context, _ string, kinds []model.QuestionKind) ([]GeneratedQuestion, int, error) {
	g.calls++
	g.lastKinds = kinds
	if g.err != nil {
		return nil, 0, g.err
	}
	return g.questions, g.dropped, nil
}

type fixture struct {
	db      *gorm.DB
	storage *memStorage

	userRepo          *repository.UserRepository
	questionnaireRepo *repository.QuestionnaireRepository
	questionRepo      *repository.QuestionRepository

	teacher    *model.User
	admin      *model.User
	department *model.Department
	subject    *model.Subject
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	f := &fixture{
		db:                db,
		storage:           newMemStorage(),
		userRepo:          repository.NewUserRepository(db),
		questionnaireRepo: repository.NewQuestionnaireRepository(db),
		questionRepo:      repository.NewQuestionRepository(db),
	}

	f.teacher = &model.User{Name: "Alice Cruz", Email: "alice@example.edu", Password: "x", Role: model.RoleTeacher}
	f.admin = &model.User{Name: "Site Admin", Email: "admin@example.edu", Password: "x", Role: model.RoleAdmin}
	for _, u := range []*model.User{f.teacher, f.admin} {
		if err := db.Create(u).Error; err != nil {
			t.Fatal(err)
		}
	}

	f.department = &model.Department{Name: "Computer Science", Code: "CS"}
	if err := db.Create(f.department).Error; err != nil {
		t.Fatal(err)
	}
	f.subject = &model.Subject{Name: "Data Structures", Code: "CS201"}
	if err := db.Create(f.subject).Error; err != nil {
		t.Fatal(err)
	}

	return f
}

func (f *fixture) newQuestionnaire(t *testing.T, content string) *model.Questionnaire {
	t.Helper()

	key := "questionnaires/" + model.GenerateUUID() + ".txt"
	f.storage.files[key] = []byte(content)

	q := &model.Questionnaire{
		Title:            "Midterm Pool",
		DepartmentID:     f.department.ID,
		SubjectID:        f.subject.ID,
		UploaderID:       f.teacher.ID,
		FileKey:          key,
		OriginalName:     "midterm.txt",
		FileSize:         int64(len(content)),
		ExtractionStatus: model.ExtractionNotStarted,
	}
	if err := f.questionnaireRepo.Create(q); err != nil {
		t.Fatal(err)
	}
	return q
}

func sampleQuestions() []GeneratedQuestion {
	return []GeneratedQuestion{
		{
			Kind:          model.MultipleChoice,
			QuestionText:  "Which structure gives O(1) amortized append?",
			OptionA:       "Linked list",
			OptionB:       "Dynamic array",
			OptionC:       "Binary heap",
			OptionD:       "Hash table",
			CorrectAnswer: "B",
			Difficulty:    "medium",
			Points:        1,
		},
		{
			Kind:          model.Essay,
			QuestionText:  "Explain the tradeoffs between arrays and linked lists.",
			CorrectAnswer: "Discussion of access vs insertion cost",
			Difficulty:    "hard",
			Points:        5,
		},
	}
}
