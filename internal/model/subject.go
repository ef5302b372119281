package model

// Subject may be taught in several departments at once, so the link is
// many-to-many rather than a plain foreign key.
// swagger:model Subject
type Subject struct {
	BaseModel
	Code        string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Departments []Department `gorm:"many2many:subject_departments;" json:"departments,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}
