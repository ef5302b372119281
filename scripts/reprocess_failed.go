// Re-runs question extraction for every questionnaire stuck in the
// failed state, for example after an AI provider outage.
//
// Usage: go run scripts/reprocess_failed.go
package main

import (
	"context"
	"log"

	"quizbank_backend/internal/config"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/service"
	"quizbank_backend/pkg/database"
	"quizbank_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	questionnaireRepo := repository.NewQuestionnaireRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	activitySvc := service.NewActivityService(repository.NewActivityRepository(db))
	extraction := service.NewExtractionService(
		questionnaireRepo, questionRepo, storage,
		service.NewAIService(&cfg.AI), activitySvc,
	)

	filter := repository.QuestionnaireFilter{Status: model.ExtractionFailed}

	// Collect IDs up front; successful runs change the status and would
	// shift the pages under us otherwise.
	var ids []uint
	for page := 1; ; page++ {
		items, _, err := questionnaireRepo.List(filter, page, 50)
		if err != nil {
			log.Fatalf("list failed questionnaires: %v", err)
		}
		if len(items) == 0 {
			break
		}
		for _, q := range items {
			ids = append(ids, q.ID)
		}
	}

	ctx := context.Background()
	reprocessed, failed := 0, 0
	for _, id := range ids {
		if _, err := extraction.Process(ctx, id, nil); err != nil {
			log.Printf("questionnaire %d still failing: %v", id, err)
			failed++
			continue
		}
		log.Printf("questionnaire %d re-extracted", id)
		reprocessed++
	}

	log.Printf("done: %d re-extracted, %d still failing", reprocessed, failed)
}
