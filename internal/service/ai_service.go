package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"quizbank_backend/internal/config"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/util"
	"quizbank_backend/pkg/logger"

	"go.uber.org/zap"
)

// maxPromptChars caps how much document text goes into the prompt so
// the request stays inside the model context window.
const maxPromptChars = 8000

// GeneratedQuestion is one question parsed out of the model response,
// not yet bound to database rows.
type GeneratedQuestion struct {
	Kind          model.QuestionKind
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Explanation   string
	Difficulty    string
	Points        int
}

// QuestionGenerator turns document text into structured questions of
// the requested kinds. The second return value counts questions the
// model produced that were dropped as malformed, of unknown kind, or
// of a kind that was not requested.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, documentText string, kinds []model.QuestionKind) ([]GeneratedQuestion, int, error)
}

// AIService calls an OpenAI-compatible chat completions endpoint.
type AIService struct {
	cfg        *config.AIConfig
	httpClient *http.Client
}

func NewAIService(cfg *config.AIConfig) *AIService {
	return &AIService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// rawQuestion tolerates both option shapes models produce: flat
// option_a..option_d keys and a nested {"options": {"a": ...}} object.
type rawQuestion struct {
	Type          string      `json:"type"`
	Question      string      `json:"question"`
	Options       *rawOptions `json:"options"`
	OptionA       string      `json:"option_a"`
	OptionB       string      `json:"option_b"`
	OptionC       string      `json:"option_c"`
	OptionD       string      `json:"option_d"`
	CorrectAnswer string      `json:"correct_answer"`
	Explanation   string      `json:"explanation"`
	Difficulty    string      `json:"difficulty"`
	Points        int         `json:"points"`
}

type rawOptions struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

type extractionPayload struct {
	Questions []rawQuestion `json:"questions"`
}

func (s *AIService) GenerateQuestions(ctx context.Context, documentText string, kinds []model.QuestionKind) ([]GeneratedQuestion, int, error) {
	if len(kinds) == 0 {
		kinds = model.AllQuestionKinds()
	}

	content, err := s.complete(ctx, buildExtractionPrompt(documentText, kinds))
	if err != nil {
		return nil, 0, err
	}

	jsonText, ok := firstJSONObject(content)
	if !ok {
		logger.Log.Warn("model response contained no JSON object",
			zap.Int("response_len", len(content)))
		return nil, 0, util.ErrInvalidAIResponse
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", util.ErrInvalidAIResponse, err)
	}

	questions, dropped := normalizeQuestions(payload.Questions, kinds)
	return questions, dropped, nil
}

func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an assistant that extracts exam questions from educational documents and answers only with JSON."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", util.ErrExternalService, err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("chat completion request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return "", fmt.Errorf("%w: status %d", util.ErrExternalService, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", util.ErrExternalService, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrExternalService, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", util.ErrExternalService)
	}

	return parsed.Choices[0].Message.Content, nil
}

var kindPromptRules = map[model.QuestionKind]string{
	model.MultipleChoice: "multiple_choice: fill option_a through option_d; correct_answer is the letter A, B, C or D",
	model.TrueFalse:      "true_false: question is a statement; correct_answer is True or False",
	model.Identification: "identification: correct_answer is the expected term, name or concept",
	model.Essay:          "essay: correct_answer is a short model answer or grading guideline",
	model.FillBlank:      "fill_blank: question contains the blank; correct_answer is the missing word or phrase",
	model.Matching:       "matching: question lists both columns; correct_answer lists the pairings",
}

func buildExtractionPrompt(documentText string, kinds []model.QuestionKind) string {
	if len(documentText) > maxPromptChars {
		documentText = documentText[:maxPromptChars]
	}

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	var sb strings.Builder
	sb.WriteString("Extract every exam question from the document below into a single JSON object.\n")
	sb.WriteString("Schema:\n")
	sb.WriteString(`{"questions": [{"type": "...", "question": "...", "option_a": "...", "option_b": "...", "option_c": "...", "option_d": "...", "correct_answer": "...", "explanation": "...", "difficulty": "easy|medium|hard", "points": 1}]}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- type must be one of: " + strings.Join(names, ", ") + "\n")
	for _, k := range kinds {
		if rule, ok := kindPromptRules[k]; ok {
			sb.WriteString("- " + rule + "\n")
		}
	}
	sb.WriteString("- option slots apply only to multiple_choice questions; leave them empty otherwise\n")
	sb.WriteString("- answer with the JSON object only, no surrounding prose\n")
	sb.WriteString("\nDocument:\n")
	sb.WriteString(documentText)
	return sb.String()
}

// firstJSONObject returns the first balanced top-level JSON object in
// s. Models often wrap the payload in code fences or prose, so this is
// more robust than stripping a fixed fence format.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// normalizeQuestions validates each raw question and fills defaults.
// Malformed entries and kinds outside the requested set are dropped
// and counted rather than failing the whole batch.
func normalizeQuestions(raw []rawQuestion, kinds []model.QuestionKind) ([]GeneratedQuestion, int) {
	requested := make(map[model.QuestionKind]bool, len(kinds))
	for _, k := range kinds {
		requested[k] = true
	}

	var out []GeneratedQuestion
	dropped := 0

	for _, q := range raw {
		kind := model.QuestionKind(strings.ToLower(strings.TrimSpace(q.Type)))
		text := strings.TrimSpace(q.Question)

		if !requested[kind] || text == "" {
			dropped++
			continue
		}

		if q.Options != nil {
			if q.OptionA == "" {
				q.OptionA = q.Options.A
			}
			if q.OptionB == "" {
				q.OptionB = q.Options.B
			}
			if q.OptionC == "" {
				q.OptionC = q.Options.C
			}
			if q.OptionD == "" {
				q.OptionD = q.Options.D
			}
		}

		g := GeneratedQuestion{
			Kind:          kind,
			QuestionText:  text,
			OptionA:       strings.TrimSpace(q.OptionA),
			OptionB:       strings.TrimSpace(q.OptionB),
			OptionC:       strings.TrimSpace(q.OptionC),
			OptionD:       strings.TrimSpace(q.OptionD),
			CorrectAnswer: strings.TrimSpace(q.CorrectAnswer),
			Explanation:   strings.TrimSpace(q.Explanation),
			Difficulty:    strings.ToLower(strings.TrimSpace(q.Difficulty)),
			Points:        q.Points,
		}

		switch kind {
		case model.MultipleChoice:
			answer := strings.ToUpper(g.CorrectAnswer)
			if g.OptionA == "" || g.OptionB == "" || g.OptionC == "" || g.OptionD == "" {
				dropped++
				continue
			}
			if answer != "A" && answer != "B" && answer != "C" && answer != "D" {
				dropped++
				continue
			}
			g.CorrectAnswer = answer
		case model.TrueFalse:
			switch strings.ToLower(g.CorrectAnswer) {
			case "true":
				g.CorrectAnswer = "True"
			case "false":
				g.CorrectAnswer = "False"
			default:
				dropped++
				continue
			}
		}

		switch g.Difficulty {
		case "easy", "medium", "hard":
		default:
			g.Difficulty = "medium"
		}
		if g.Points <= 0 {
			g.Points = 1
		}

		out = append(out, g)
	}

	return out, dropped
}
