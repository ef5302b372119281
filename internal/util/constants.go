package util

// Allowed questionnaire upload extensions, lowercase with leading dot.
var AllowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".xls":  true,
	".xlsx": true,
}

const (
	// QuestionnairePageSize is the page size of the my-uploads listing.
	QuestionnairePageSize = 10
	// BrowsePageSize is the page size of the shared catalog listing.
	BrowsePageSize = 12
	// TeacherPageSize is the page size of the admin teacher listing.
	TeacherPageSize = 12
)
