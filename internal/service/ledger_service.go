package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wicaksana/fee-engine/internal/config"
	"github.com/wicaksana/fee-engine/internal/domain"
	"github.com/wicaksana/fee-engine/internal/repository"

	"github.com/redis/go-redis/v9"
)

// LedgerService implements the fee ledger engine: monthly generation, arrears
// aggregation, aggregate payment processing, absence fines and due-date
// maintenance. All operations are synchronous request/response calls over the
// injected repositories.
type LedgerService struct {
	feeRepo        repository.FeeRepository
	studentRepo    repository.StudentRepository
	attendanceRepo repository.AttendanceRepository
	cache          *redis.Client

	defaultFeeType  string
	defaultFee      decimal.Decimal
	allowedAbsences int
	absenceFine     decimal.Decimal
	cacheTTL        time.Duration

	now func() time.Time
}

func NewLedgerService(
	feeRepo repository.FeeRepository,
	studentRepo repository.StudentRepository,
	attendanceRepo repository.AttendanceRepository,
	cache *redis.Client,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		feeRepo:         feeRepo,
		studentRepo:     studentRepo,
		attendanceRepo:  attendanceRepo,
		cache:           cache,
		defaultFeeType:  cfg.Fees.DefaultFeeType,
		defaultFee:      cfg.GetDefaultMonthlyFee(),
		allowedAbsences: cfg.Fees.AllowedAbsences,
		absenceFine:     cfg.GetAbsenceFineAmount(),
		cacheTTL:        cfg.GetCacheTTL(),
		now:             time.Now,
	}
}

func (s *LedgerService) feeTypeOrDefault(feeType string) string {
	if feeType == "" {
		return s.defaultFeeType
	}
	return feeType
}

// Cache is best-effort: a miss or a redis failure falls through to the
// database, and every ledger mutation drops the student's cached view.

func aggregateCacheKey(studentID string) string {
	return "fee:aggregate:" + studentID
}

func (s *LedgerService) cachedAggregate(ctx context.Context, studentID string) *domain.StudentAggregate {
	if s.cache == nil {
		return nil
	}

	payload, err := s.cache.Get(ctx, aggregateCacheKey(studentID)).Result()
	if err != nil {
		return nil
	}

	var agg domain.StudentAggregate
	if err := json.Unmarshal([]byte(payload), &agg); err != nil {
		return nil
	}

	return &agg
}

func (s *LedgerService) storeAggregate(ctx context.Context, agg *domain.StudentAggregate) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(agg)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, aggregateCacheKey(agg.StudentID), payload, s.cacheTTL).Err(); err != nil {
		log.Printf("cache set failed for student %s: %v", agg.StudentID, err)
	}
}

func (s *LedgerService) invalidateStudent(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, aggregateCacheKey(studentID)).Err(); err != nil {
		log.Printf("cache invalidation failed for student %s: %v", studentID, err)
	}
}
