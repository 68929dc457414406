package service

import (
	"context"
	"encoding/json"
	"fmt"

	"hallbook/internal/cache"
	apperrors "hallbook/internal/errors"
	"hallbook/internal/logger"
	"hallbook/internal/models"
	"hallbook/internal/repository"
	"hallbook/internal/search"
)

type HallService struct {
	hallRepo     *repository.HallRepository
	esClient     *search.ElasticsearchClient
	valkeyClient *cache.ValkeyClient
}

func NewHallService(hallRepo *repository.HallRepository, esClient *search.ElasticsearchClient, valkeyClient *cache.ValkeyClient) *HallService {
	return &HallService{
		hallRepo:     hallRepo,
		esClient:     esClient,
		valkeyClient: valkeyClient,
	}
}

// Create persists a hall, indexes it for search and drops stale listings
// from the cache. Indexing and cache failures do not fail the creation.
func (s *HallService) Create(ctx context.Context, ownerID int64, req *models.CreateHallRequest) (*models.CreateHallResponse, error) {
	hall := &models.Hall{
		OwnerID:      ownerID,
		Name:         req.Name,
		PricePerHour: req.PricePerHour,
		IsActive:     true,
	}
	if req.Description != "" {
		hall.Description = &req.Description
	}
	if req.City != "" {
		hall.City = &req.City
	}
	if req.State != "" {
		hall.State = &req.State
	}
	if req.Address != "" {
		hall.Address = &req.Address
	}

	if err := s.hallRepo.Create(ctx, hall); err != nil {
		return nil, fmt.Errorf("failed to create hall: %w", err)
	}

	if s.esClient != nil {
		if err := s.esClient.IndexHall(ctx, hallDocument(hall)); err != nil {
			logger.WithContext(ctx).Error("Failed to index hall",
				"error", err,
				"hall_id", hall.ID)
		}
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.InvalidateHallsList(ctx); err != nil {
			logger.WithContext(ctx).Error("Failed to invalidate halls cache",
				"error", err,
				"hall_id", hall.ID)
		}
	}

	return &models.CreateHallResponse{ID: hall.ID}, nil
}

// List returns active halls via the search index. Plain browse listings
// (no free-text query) are served from the Valkey cache when possible.
func (s *HallService) List(ctx context.Context, query, city string, page, pageSize int) ([]models.ListHallsResponseItem, error) {
	cacheable := query == "" && page <= 1 && s.valkeyClient != nil

	if cacheable {
		raw, hit, err := s.valkeyClient.GetHallsListRaw(ctx, city)
		if err != nil {
			logger.WithContext(ctx).Error("Halls cache read failed", "error", err)
		} else if hit {
			var items []models.ListHallsResponseItem
			if err := json.Unmarshal([]byte(raw), &items); err == nil {
				return items, nil
			}
			logger.WithContext(ctx).Error("Halls cache entry corrupt, dropping", "error", err)
		}
	}

	docs, err := s.esClient.Search(ctx, query, city, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search halls: %w", err)
	}

	items := make([]models.ListHallsResponseItem, len(docs))
	for i, doc := range docs {
		items[i] = models.ListHallsResponseItem{
			ID:           doc.ID,
			Name:         doc.Name,
			City:         doc.City,
			PricePerHour: doc.PricePerHour,
		}
	}

	if cacheable {
		if raw, err := json.Marshal(items); err == nil {
			if err := s.valkeyClient.SetHallsListRaw(ctx, city, string(raw)); err != nil {
				logger.WithContext(ctx).Error("Halls cache write failed", "error", err)
			}
		}
	}

	return items, nil
}

// GetByID reads the hall from the database, which stays the source of truth
func (s *HallService) GetByID(ctx context.Context, id int64) (*models.Hall, error) {
	hall, err := s.hallRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	if hall == nil {
		return nil, apperrors.ErrHallNotFound
	}
	return hall, nil
}

func (s *HallService) ListByOwner(ctx context.Context, ownerID int64) ([]models.Hall, error) {
	halls, err := s.hallRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list halls: %w", err)
	}
	return halls, nil
}

func hallDocument(hall *models.Hall) *models.HallDocument {
	doc := &models.HallDocument{
		ID:           hall.ID,
		OwnerID:      hall.OwnerID,
		Name:         hall.Name,
		PricePerHour: hall.PricePerHour,
		IsActive:     hall.IsActive,
		CreatedAt:    hall.CreatedAt,
		UpdatedAt:    hall.UpdatedAt,
	}
	if hall.Description != nil {
		doc.Description = *hall.Description
	}
	if hall.City != nil {
		doc.City = *hall.City
	}
	if hall.State != nil {
		doc.State = *hall.State
	}
	if hall.Address != nil {
		doc.Address = *hall.Address
	}
	return doc
}
