package service

import (
	"context"
	"fmt"
	"os"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type MetricTypeSeed struct {
	Name        string   `yaml:"name"`
	Unit        string   `yaml:"unit"`
	Description string   `yaml:"description"`
	MinValue    *float64 `yaml:"min_value"`
	MaxValue    *float64 `yaml:"max_value"`
	IsActive    *bool    `yaml:"is_active"`
}

type seedFile struct {
	MetricTypes []MetricTypeSeed `yaml:"metric_types"`
}

type SeedResult struct {
	Created int
	Updated int
}

type SeedService struct {
	MetricTypeRepo *repository.MetricTypeRepository
}

func NewSeedService(metricTypeRepo *repository.MetricTypeRepository) *SeedService {
	return &SeedService{MetricTypeRepo: metricTypeRepo}
}

func LoadMetricTypeSeeds(path string) ([]MetricTypeSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, s := range f.MetricTypes {
		if s.Name == "" || s.Unit == "" {
			return nil, fmt.Errorf("%s: metric type #%d needs a name and a unit", path, i+1)
		}
	}
	return f.MetricTypes, nil
}

// SeedMetricTypes upserts the given types by name.
func (s *SeedService) SeedMetricTypes(ctx context.Context, seeds []MetricTypeSeed) (SeedResult, error) {
	var res SeedResult
	for _, seed := range seeds {
		mt := &model.MetricType{
			Name:        seed.Name,
			Unit:        seed.Unit,
			Description: seed.Description,
			MinValue:    roundPtr(seed.MinValue),
			MaxValue:    roundPtr(seed.MaxValue),
			IsActive:    seed.IsActive == nil || *seed.IsActive,
		}
		created, err := s.MetricTypeRepo.UpsertByName(ctx, mt)
		if err != nil {
			return res, fmt.Errorf("seed metric type %s: %w", seed.Name, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	logger.Log.Info("Metric types seeded", zap.Int("created", res.Created), zap.Int("updated", res.Updated))
	return res, nil
}

// SeedFromFile loads path and seeds it.
func (s *SeedService) SeedFromFile(ctx context.Context, path string) (SeedResult, error) {
	seeds, err := LoadMetricTypeSeeds(path)
	if err != nil {
		return SeedResult{}, err
	}
	return s.SeedMetricTypes(ctx, seeds)
}
