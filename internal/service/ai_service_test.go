package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizbank_backend/internal/config"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/util"
)

func newAITestServer(t *testing.T, handler http.HandlerFunc) (*AIService, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewAIService(&config.AIConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		Model:          "gpt-4o-mini",
		RequestTimeout: 5 * time.Second,
	})
	return svc, srv
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateQuestionsParsesFencedJSON(t *testing.T) {
	content := "Here are the questions:\n```json\n" +
		`{"questions": [
			{"type": "multiple_choice", "question": "2+2?", "option_a": "3", "option_b": "4", "option_c": "5", "option_d": "6", "correct_answer": "b"},
			{"type": "true_false", "question": "The sky is blue.", "correct_answer": "TRUE"}
		]}` + "\n```\nLet me know if you need more."

	var gotAuth string
	svc, _ := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		chatReply(t, w, content)
	})

	questions, dropped, err := svc.GenerateQuestions(context.Background(), "document text", nil)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[0].CorrectAnswer != "B" {
		t.Errorf("multiple choice answer = %q, want normalized B", questions[0].CorrectAnswer)
	}
	if questions[1].CorrectAnswer != "True" {
		t.Errorf("true/false answer = %q, want normalized True", questions[1].CorrectAnswer)
	}
	if questions[0].Difficulty != "medium" || questions[0].Points != 1 {
		t.Errorf("defaults not applied: difficulty=%q points=%d", questions[0].Difficulty, questions[0].Points)
	}
}

func TestGenerateQuestionsAcceptsNestedOptions(t *testing.T) {
	content := `{"questions": [
		{"type": "multiple_choice", "question": "2+2?", "options": {"a": "3", "b": "4", "c": "5", "d": "6"}, "correct_answer": "B"}
	]}`

	svc, _ := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, content)
	})

	questions, dropped, err := svc.GenerateQuestions(context.Background(), "text", nil)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].OptionA != "3" || questions[0].OptionD != "6" {
		t.Errorf("nested options not mapped: %+v", questions[0])
	}
	if questions[0].CorrectAnswer != "B" {
		t.Errorf("answer = %q, want B", questions[0].CorrectAnswer)
	}
}

func TestGenerateQuestionsDropsMalformedEntries(t *testing.T) {
	content := `{"questions": [
		{"type": "riddle", "question": "Unknown kind"},
		{"type": "multiple_choice", "question": "Missing options", "correct_answer": "A"},
		{"type": "multiple_choice", "question": "Bad answer", "option_a": "1", "option_b": "2", "option_c": "3", "option_d": "4", "correct_answer": "E"},
		{"type": "true_false", "question": "Bad answer", "correct_answer": "maybe"},
		{"type": "essay", "question": ""},
		{"type": "identification", "question": "Name the inventor of the WWW.", "correct_answer": "Tim Berners-Lee"}
	]}`

	svc, _ := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, content)
	})

	questions, dropped, err := svc.GenerateQuestions(context.Background(), "text", nil)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if dropped != 5 {
		t.Errorf("dropped = %d, want 5", dropped)
	}
	if questions[0].Kind != model.Identification {
		t.Errorf("kept kind = %s, want identification", questions[0].Kind)
	}
}

func TestGenerateQuestionsNoJSON(t *testing.T) {
	svc, _ := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "I could not find any questions in this document.")
	})

	_, _, err := svc.GenerateQuestions(context.Background(), "text", nil)
	if !errors.Is(err, util.ErrInvalidAIResponse) {
		t.Fatalf("expected ErrInvalidAIResponse, got %v", err)
	}
}

func TestGenerateQuestionsServerError(t *testing.T) {
	svc, _ := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	})

	_, _, err := svc.GenerateQuestions(context.Background(), "text", nil)
	if !errors.Is(err, util.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestBuildExtractionPromptTruncates(t *testing.T) {
	long := strings.Repeat("z", maxPromptChars+500)
	prompt := buildExtractionPrompt(long, model.AllQuestionKinds())

	if strings.Count(prompt, "z") != maxPromptChars {
		t.Errorf("document text not truncated to %d chars", maxPromptChars)
	}
}

func TestBuildExtractionPromptListsOnlyRequestedKinds(t *testing.T) {
	prompt := buildExtractionPrompt("doc", []model.QuestionKind{model.Essay, model.TrueFalse})

	if !strings.Contains(prompt, "type must be one of: essay, true_false") {
		t.Error("prompt must restrict types to the requested kinds")
	}
	if strings.Contains(prompt, "multiple_choice:") {
		t.Error("prompt must not carry rules for kinds that were not requested")
	}
}

func TestGenerateQuestionsDropsUnrequestedKinds(t *testing.T) {
	content := `{"questions": [
		{"type": "true_false", "question": "Water boils at 100C at sea level.", "correct_answer": "True"},
		{"type": "essay", "question": "Discuss the water cycle.", "correct_answer": "Evaporation, condensation, precipitation overview"}
	]}`

	svc, _ := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, content)
	})

	questions, dropped, err := svc.GenerateQuestions(context.Background(), "text", []model.QuestionKind{model.TrueFalse})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 1 || questions[0].Kind != model.TrueFalse {
		t.Fatalf("got %d questions, want only the true_false one", len(questions))
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
}

func TestFirstJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`, true},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"prose around", `Sure! {"a": {"b": 2}} Hope that helps.`, `{"a": {"b": 2}}`, true},
		{"brace in string", `{"a": "}"}`, `{"a": "}"}`, true},
		{"escaped quote", `{"a": "\"}"}`, `{"a": "\"}"}`, true},
		{"no object", "nothing here", "", false},
		{"unbalanced", `{"a": 1`, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := firstJSONObject(tc.input)
			if ok != tc.ok || got != tc.want {
				t.Errorf("firstJSONObject(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
			}
		})
	}
}
