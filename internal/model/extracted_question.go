package model

// swagger:model ExtractedQuestion
type ExtractedQuestion struct {
	BaseModel
	QuestionnaireID uint `gorm:"index;not null" json:"questionnaireId"`
	QuestionTypeID  uint `gorm:"index;not null" json:"questionTypeId"`

	QuestionText string `gorm:"type:text;not null" json:"questionText"`

	// Option slots are only populated for multiple_choice questions.
	OptionA string `gorm:"type:text" json:"optionA,omitempty"`
	OptionB string `gorm:"type:text" json:"optionB,omitempty"`
	OptionC string `gorm:"type:text" json:"optionC,omitempty"`
	OptionD string `gorm:"type:text" json:"optionD,omitempty"`

	// CorrectAnswer semantics depend on the kind: option letter for
	// multiple_choice, "True"/"False" for true_false, the expected term or
	// model answer otherwise.
	CorrectAnswer string `gorm:"type:text" json:"correctAnswer"`
	Explanation   string `gorm:"type:text" json:"explanation"`
	Difficulty    string `gorm:"size:20;default:'medium'" json:"difficulty"`
	Points        int    `gorm:"default:1" json:"points"`
	IsApproved    bool   `gorm:"default:false" json:"isApproved"`

	QuestionType QuestionType `json:"questionType,omitempty"`
}

func (ExtractedQuestion) TableName() string {
	return "extracted_questions"
}
