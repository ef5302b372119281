package database

import (
	"fmt"
	"log"
	"quizbank_backend/internal/config"
	"quizbank_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate runs AutoMigrate for every table and seeds the fixed question
// type catalog. It is shared with the test setup, which runs it against
// an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Department{},
		&model.Subject{},
		&model.TeacherProfile{},
		&model.QuestionType{},
		&model.Questionnaire{},
		&model.ExtractedQuestion{},
		&model.Download{},
		&model.ActivityLog{},
	)
	if err != nil {
		return err
	}

	return seedQuestionTypes(db)
}

// The six question kinds are fixed; seeding is idempotent so repeated
// migrations leave existing rows untouched.
func seedQuestionTypes(db *gorm.DB) error {
	defaults := []model.QuestionType{
		{Name: model.MultipleChoice, Description: "Questions with four options (A, B, C, D) where only one is correct", IsActive: true},
		{Name: model.TrueFalse, Description: "Questions that can be answered with True or False", IsActive: true},
		{Name: model.Identification, Description: "Questions requiring specific terms, names, or concepts as answers", IsActive: true},
		{Name: model.Essay, Description: "Open-ended questions requiring detailed written responses", IsActive: true},
		{Name: model.FillBlank, Description: "Sentences or paragraphs with missing words to be filled in", IsActive: true},
		{Name: model.Matching, Description: "Questions where items in two columns must be matched", IsActive: true},
	}

	for _, qt := range defaults {
		var count int64
		if err := db.Model(&model.QuestionType{}).Where("name = ?", qt.Name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&qt).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
