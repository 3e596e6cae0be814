// The trainer is the offline pipeline: it turns the historical games
// table into point-in-time features and fits, compares, and persists the
// winning classifier. It never runs inside the serving process; the
// server picks up new artifacts through its file watcher.
package main

import (
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hoopiq/courtcast/internal/dataset"
	"github.com/hoopiq/courtcast/internal/features"
	"github.com/hoopiq/courtcast/internal/ml"
	"github.com/hoopiq/courtcast/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: trainer [features|train|all]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logger.SetLevel(logrus.DebugLevel)
	}

	switch os.Args[1] {
	case "features":
		if err := buildFeatures(cfg, logger); err != nil {
			logrus.Fatalf("Feature build failed: %v", err)
		}

	case "train":
		rows, err := dataset.LoadFeatureRows(cfg.FeaturesCSVPath)
		if err != nil {
			logrus.Fatalf("Failed to load feature table: %v", err)
		}
		if err := train(cfg, logger, rows); err != nil {
			logrus.Fatalf("Training failed: %v", err)
		}

	case "all":
		if err := buildFeatures(cfg, logger); err != nil {
			logrus.Fatalf("Feature build failed: %v", err)
		}
		rows, err := dataset.LoadFeatureRows(cfg.FeaturesCSVPath)
		if err != nil {
			logrus.Fatalf("Failed to load feature table: %v", err)
		}
		if err := train(cfg, logger, rows); err != nil {
			logrus.Fatalf("Training failed: %v", err)
		}

	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

func buildFeatures(cfg *config.Config, logger *logrus.Logger) error {
	records, err := dataset.LoadGameRecords(cfg.GamesCSVPath)
	if err != nil {
		return err
	}
	logger.WithField("records", len(records)).Info("Historical games loaded")

	builder := features.NewBuilder(cfg.RollingWindow, logger)
	rows := builder.Build(records)

	if err := dataset.WriteFeatureRows(cfg.FeaturesCSVPath, rows); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"rows": len(rows),
		"path": cfg.FeaturesCSVPath,
	}).Info("Feature table written")
	return nil
}

func train(cfg *config.Config, logger *logrus.Logger, rows []features.FeatureRow) error {
	trainer := ml.NewTrainer(cfg.TrainSeed, logger)
	trainer.ShuffleSplit = cfg.TrainShuffleSplit

	report, err := trainer.Train(rows)
	if err != nil {
		return err
	}

	bestName, best, err := ml.SelectBest(report.Results)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"best":     bestName,
		"accuracy": best.Accuracy,
		"auc":      best.AUC,
	}).Info("Best candidate selected")

	if err := ml.SaveArtifact(cfg.ModelDir, cfg.ModelBaseName, best.Model, report.Scaler, report.TrainedAt); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"dir":  cfg.ModelDir,
		"base": cfg.ModelBaseName,
	}).Info("Model artifact pair saved")
	return nil
}
