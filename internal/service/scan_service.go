// Package service implements the business operations behind the HTTP API:
// scan analysis, listings, marketplace connections, and pricing.
package service

import (
	"context"
	"encoding/json"

	"github.com/flipperzap/internal/ai"
	"github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/models"
	"github.com/flipperzap/internal/storage"
	"github.com/flipperzap/internal/types"
	"github.com/flipperzap/internal/worker"
)

// ScanService owns the scan lifecycle: accept an image, run analysis in the
// background, and move the scan to a terminal state exactly once.
type ScanService struct {
	store    *storage.MemoryStore
	cache    *storage.ScanCache
	ai       ai.Service
	pool     *worker.Pool
	notifier Notifier
	logger   *logging.Logger
}

// NewScanService wires the scan pipeline. cache may be nil.
func NewScanService(store *storage.MemoryStore, cache *storage.ScanCache, aiSvc ai.Service, pool *worker.Pool, notifier Notifier, logger *logging.Logger) *ScanService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ScanService{
		store:    store,
		cache:    cache,
		ai:       aiSvc,
		pool:     pool,
		notifier: notifier,
		logger:   logger,
	}
}

// StartScan creates the scan record and queues its analysis. The returned
// scan is in the given initial status; the caller responds immediately while
// analysis runs in the background.
func (s *ScanService) StartScan(ctx context.Context, userID, imageURL string, initial types.ScanStatus) (*models.Scan, error) {
	scan := s.store.CreateScan(ctx, storage.CreateScanParams{
		UserID:   userID,
		ImageURL: imageURL,
		Status:   initial,
	})

	scanID := scan.ID
	if err := s.pool.Submit("scan-analysis", func(jobCtx context.Context) {
		s.processScan(jobCtx, scanID, userID, imageURL)
	}); err != nil {
		// The scan record stays behind as failed so the client can see what happened
		failed := types.ScanStatusFailed
		s.store.UpdateScan(ctx, scanID, storage.ScanUpdate{Status: &failed})
		s.cache.Invalidate(ctx, scanID)
		return nil, errors.NewQueueFullError()
	}

	return scan, nil
}

// processScan runs the AI analysis and moves the scan to its terminal state.
// A scan already in a terminal state is never touched again.
func (s *ScanService) processScan(ctx context.Context, scanID, userID, imageURL string) {
	logger := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"scan_id": scanID,
		"user_id": userID,
	})

	current, ok := s.store.GetScan(ctx, scanID)
	if !ok {
		logger.Warn("Scan vanished before analysis started")
		return
	}
	if current.Status.Terminal() {
		logger.WithField("status", string(current.Status)).Warn("Scan already terminal, skipping analysis")
		return
	}

	analysis, err := s.ai.AnalyzeToy(ctx, imageURL)
	if err != nil {
		logger.WithError(err).Error("AI analysis failed")
		s.failScan(ctx, scanID, userID, err)
		return
	}

	rawAnalysis, err := json.Marshal(analysis)
	if err != nil {
		logger.WithError(err).Error("Failed to encode analysis")
		s.failScan(ctx, scanID, userID, err)
		return
	}

	toy := s.store.CreateToy(ctx, storage.CreateToyParams{
		Name:        analysis.ToyName,
		Brand:       analysis.Brand,
		Category:    &analysis.Category,
		Description: &analysis.Description,
		Condition:   analysis.Condition,
		ImageURL:    imageURL,
		AIAnalysis:  rawAnalysis,
	})

	completed := types.ScanStatusCompleted
	updated, ok := s.store.UpdateScan(ctx, scanID, storage.ScanUpdate{
		Status:            &completed,
		ToyID:             &toy.ID,
		AIAnalysis:        rawAnalysis,
		EstimatedPriceMin: &analysis.EstimatedPriceMin,
		EstimatedPriceMax: &analysis.EstimatedPriceMax,
	})
	if !ok {
		logger.Warn("Scan vanished before analysis completed")
		return
	}
	s.cache.Invalidate(ctx, scanID)

	logger.WithField("toy_name", analysis.ToyName).Info("Scan analysis completed")
	s.notifier.SendScanUpdate(userID, scanID, string(types.ScanStatusCompleted), updated)
}

func (s *ScanService) failScan(ctx context.Context, scanID, userID string, cause error) {
	failed := types.ScanStatusFailed
	if _, ok := s.store.UpdateScan(ctx, scanID, storage.ScanUpdate{Status: &failed}); !ok {
		return
	}
	s.cache.Invalidate(ctx, scanID)

	s.notifier.SendScanUpdate(userID, scanID, string(types.ScanStatusFailed), map[string]string{
		"error": cause.Error(),
	})
}

// GetScan reads through the cache, falling back to the store on a miss
func (s *ScanService) GetScan(ctx context.Context, scanID string) (*models.Scan, error) {
	if scan, ok := s.cache.Get(ctx, scanID); ok {
		return scan, nil
	}

	scan, ok := s.store.GetScan(ctx, scanID)
	if !ok {
		return nil, errors.NewScanNotFoundError(scanID)
	}

	s.cache.Set(ctx, scan)
	return scan, nil
}

// ListScans returns the user's scans, newest first
func (s *ScanService) ListScans(ctx context.Context, userID string) []*models.Scan {
	return s.store.GetScansByUser(ctx, userID)
}
