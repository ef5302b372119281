package model

import "time"

const (
	ActivityUserLogin             = "user_login"
	ActivityQuestionnaireUpload   = "questionnaire_uploaded"
	ActivityQuestionnaireEdit     = "questionnaire_updated"
	ActivityQuestionnaireDelete   = "questionnaire_deleted"
	ActivityQuestionnaireDownload = "questionnaire_downloaded"
	ActivityExtractionCompleted   = "extraction_completed"
	ActivityExtractionFailed      = "extraction_failed"
	ActivityExtractionRetried     = "extraction_retried"
	ActivityQuestionsApproved     = "questions_approved"
	ActivityTeacherCreated        = "teacher_created"
	ActivityTeacherUpdated        = "teacher_updated"
	ActivityTeacherDeleted        = "teacher_deleted"
	ActivityDepartmentCreated     = "department_created"
	ActivityDepartmentUpdated     = "department_updated"
	ActivityDepartmentDeleted     = "department_deleted"
	ActivitySubjectCreated        = "subject_created"
	ActivitySubjectUpdated        = "subject_updated"
	ActivitySubjectDeleted        = "subject_deleted"
)

// ActivityLog is an append-only trail consumed by the notification feed.
// swagger:model ActivityLog
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *uint     `gorm:"index" json:"userId,omitempty"`
	ActivityType string    `gorm:"size:50;index;not null" json:"activityType"`
	Description  string    `gorm:"type:text" json:"description"`
	IsRead       bool      `gorm:"default:false" json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`

	User *User `json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
