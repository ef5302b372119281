package model

// QuestionKind is one of the six fixed question categories. The set is
// seeded at migration time and read-only afterwards.
type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple_choice"
	TrueFalse      QuestionKind = "true_false"
	Identification QuestionKind = "identification"
	Essay          QuestionKind = "essay"
	FillBlank      QuestionKind = "fill_blank"
	Matching       QuestionKind = "matching"
)

func AllQuestionKinds() []QuestionKind {
	return []QuestionKind{MultipleChoice, TrueFalse, Identification, Essay, FillBlank, Matching}
}

// swagger:model QuestionType
type QuestionType struct {
	BaseModel
	Name        QuestionKind `gorm:"size:30;uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	IsActive    bool         `gorm:"default:true" json:"isActive"`
}

func (QuestionType) TableName() string {
	return "question_types"
}
