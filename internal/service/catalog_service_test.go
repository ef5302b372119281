package service

import (
	"context"
	"errors"
	"testing"

	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"
)

func newCatalogService(f *fixture) *CatalogService {
	return NewCatalogService(
		repository.NewDepartmentRepository(f.db),
		repository.NewSubjectRepository(f.db),
		NewActivityService(repository.NewActivityRepository(f.db)),
		nil, // cache degrades to database reads
	)
}

func TestSubjectsByDepartmentOrderedByCode(t *testing.T) {
	f := newFixture(t)
	svc := newCatalogService(f)

	dept, err := svc.CreateDepartment(adminAuth(f), DepartmentInput{
		Name: "Mathematics",
		Code: "MATH",
	})
	if err != nil {
		t.Fatal(err)
	}

	var ids []uint
	for _, s := range []SubjectInput{
		{Name: "Calculus II", Code: "MATH202"},
		{Name: "Algebra", Code: "MATH101"},
		{Name: "Statistics", Code: "MATH150"},
	} {
		subject, err := svc.CreateSubject(adminAuth(f), s)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, subject.ID)
	}

	if _, err := svc.UpdateDepartment(adminAuth(f), dept.ID, DepartmentInput{
		Name:       dept.Name,
		Code:       dept.Code,
		SubjectIDs: ids,
	}); err != nil {
		t.Fatal(err)
	}

	subjects, err := svc.SubjectsByDepartment(context.Background(), dept.ID)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"MATH101", "MATH150", "MATH202"}
	if len(subjects) != len(want) {
		t.Fatalf("got %d subjects, want %d", len(subjects), len(want))
	}
	for i, code := range want {
		if subjects[i].Code != code {
			t.Errorf("subjects[%d].Code = %s, want %s", i, subjects[i].Code, code)
		}
	}
}

func TestCreateDepartmentRejectsDuplicateCode(t *testing.T) {
	f := newFixture(t)
	svc := newCatalogService(f)

	input := DepartmentInput{Name: "Physics", Code: "PHYS"}
	if _, err := svc.CreateDepartment(adminAuth(f), input); err != nil {
		t.Fatal(err)
	}

	_, err := svc.CreateDepartment(adminAuth(f), DepartmentInput{Name: "Physical Sciences", Code: "PHYS"})
	if !errors.Is(err, util.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestDeleteDepartmentBlockedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	svc := newCatalogService(f)

	// f.department already backs a questionnaire after this call.
	f.newQuestionnaire(t, "content")

	err := svc.DeleteDepartment(adminAuth(f), f.department.ID)
	if !errors.Is(err, util.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}

func TestDeleteSubjectBlockedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	svc := newCatalogService(f)

	f.newQuestionnaire(t, "content")

	err := svc.DeleteSubject(adminAuth(f), f.subject.ID)
	if !errors.Is(err, util.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}

func TestSubjectsByUnknownDepartment(t *testing.T) {
	f := newFixture(t)
	svc := newCatalogService(f)

	_, err := svc.SubjectsByDepartment(context.Background(), 9999)
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionTypesSeeded(t *testing.T) {
	f := newFixture(t)

	types, err := f.questionRepo.ListTypes()
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != len(model.AllQuestionKinds()) {
		t.Fatalf("seeded %d question types, want %d", len(types), len(model.AllQuestionKinds()))
	}

	seen := make(map[model.QuestionKind]bool)
	for _, qt := range types {
		seen[qt.Name] = true
	}
	for _, kind := range model.AllQuestionKinds() {
		if !seen[kind] {
			t.Errorf("kind %s missing from seeded types", kind)
		}
	}
}
