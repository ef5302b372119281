package model

// ExtractionStatus tracks the AI extraction pipeline of one questionnaire.
type ExtractionStatus string

const (
	ExtractionNotStarted ExtractionStatus = "not_started"
	ExtractionProcessing ExtractionStatus = "processing"
	ExtractionCompleted  ExtractionStatus = "completed"
	ExtractionFailed     ExtractionStatus = "failed"
)

// swagger:model Questionnaire
type Questionnaire struct {
	BaseModel
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	DepartmentID uint   `gorm:"index;not null" json:"departmentId"`
	SubjectID    uint   `gorm:"index;not null" json:"subjectId"`
	UploaderID   uint   `gorm:"index;not null" json:"uploaderId"`

	// FileKey is the storage key under the media root; OriginalName keeps
	// the filename the teacher uploaded, used for the download attachment.
	FileKey      string `gorm:"size:255;not null" json:"fileKey"`
	OriginalName string `gorm:"size:255;not null" json:"originalName"`
	FileSize     int64  `json:"fileSize"`

	ExtractionStatus ExtractionStatus `gorm:"size:20;not null;default:'not_started'" json:"extractionStatus"`
	IsExtracted      bool             `gorm:"default:false" json:"isExtracted"`
	ExtractionError  string           `gorm:"type:text" json:"extractionError,omitempty"`

	Department Department `json:"department,omitempty"`
	Subject    Subject    `json:"subject,omitempty"`
	Uploader   User       `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}

func (Questionnaire) TableName() string {
	return "questionnaires"
}

// The three Mark methods are the only places the status triple
// (ExtractionStatus, IsExtracted, ExtractionError) is mutated, so the
// invariants "extracted implies completed" and "failed implies an error
// message" hold by construction.

func (q *Questionnaire) MarkProcessing() {
	q.ExtractionStatus = ExtractionProcessing
	q.IsExtracted = false
	q.ExtractionError = ""
}

func (q *Questionnaire) MarkCompleted() {
	q.ExtractionStatus = ExtractionCompleted
	q.IsExtracted = true
	q.ExtractionError = ""
}

func (q *Questionnaire) MarkFailed(reason string) {
	if reason == "" {
		reason = "extraction failed"
	}
	q.ExtractionStatus = ExtractionFailed
	q.IsExtracted = false
	q.ExtractionError = reason
}
