package model

// swagger:model TeacherProfile
type TeacherProfile struct {
	BaseModel
	UserID       uint   `gorm:"uniqueIndex;not null" json:"userId"`
	DepartmentID *uint  `gorm:"index" json:"departmentId"`
	EmployeeID   string `gorm:"size:50;uniqueIndex;not null" json:"employeeId"`
	Phone        string `gorm:"size:20" json:"phone"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`

	User       User        `json:"user,omitempty"`
	Department *Department `json:"department,omitempty"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}
