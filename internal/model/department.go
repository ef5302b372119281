package model

// swagger:model Department
type Department struct {
	BaseModel
	Name        string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Code        string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Description string `gorm:"type:text" json:"description"`

	Subjects []Subject `gorm:"many2many:subject_departments;" json:"subjects,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}
