package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"utbk-prep/internal/config"
	"utbk-prep/internal/database"
	"utbk-prep/internal/domain"
	"utbk-prep/internal/logger"
	"utbk-prep/internal/repository"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "configs/seed_data/questions.json"

// seedQuestion is the on-disk shape of one question.
type seedQuestion struct {
	SubtestCode   string `json:"subtest_code"`
	Text          string `json:"text"`
	Options       []struct {
		Label string `json:"label"`
		Text  string `json:"text"`
	} `json:"options"`
	CorrectAnswer string `json:"correct_answer"`
}

func main() {
	seedFilePath := flag.String("file", defaultSeedFilePath, "path to the seed question JSON file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting question seeding process...")
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Loading seed data from file", zap.String("path", *seedFilePath))
	byteValue, err := os.ReadFile(*seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFilePath), zap.Error(err))
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(byteValue, &seeds); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Successfully unmarshalled seed data", zap.Int("questions_loaded", len(seeds)))

	repo := repository.NewSQLXQuestionRepository(db)
	perSubtest := make(map[string]int)
	seeded := 0

	for i, seed := range seeds {
		options := make([]domain.Option, len(seed.Options))
		for j, opt := range seed.Options {
			options[j] = domain.Option{Label: opt.Label, Text: opt.Text}
		}
		question := domain.NewQuestion(domain.SubtestCode(seed.SubtestCode), seed.Text, options, seed.CorrectAnswer)
		if err := question.Validate(); err != nil {
			log.Error("Skipping invalid seed question", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := repo.SaveQuestion(ctx, question); err != nil {
			log.Error("Failed to save question", zap.Int("index", i), zap.String("subtest", seed.SubtestCode), zap.Error(err))
			continue
		}
		perSubtest[seed.SubtestCode]++
		seeded++
	}

	for code, count := range perSubtest {
		log.Info("Seeded subtest", zap.String("subtest", code), zap.Int("questions", count))
	}
	log.Info("Question seeding process completed.", zap.Int("seeded", seeded), zap.Int("skipped", len(seeds)-seeded))
}
