package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/campuspathway/leads-api/internal/models"
	apperrors "github.com/campuspathway/leads-api/pkg/errors"
	"github.com/campuspathway/leads-api/pkg/logger"
	"github.com/campuspathway/leads-api/pkg/metrics"
)

// MaxListLimit caps the recent-submissions listing
const MaxListLimit = 100

const recentCacheKey = "recent"

// querier is the subset of the pgx pool API the repository uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// recentEntry is a cached recent-submissions fetch. complete means the fetch
// returned fewer rows than MaxListLimit, i.e. it holds the entire table and
// can serve any limit.
type recentEntry struct {
	subs     []*models.Submission
	complete bool
}

// SubmissionRepository handles lead submission data access. A short-TTL
// cache sits in front of the recent listing; it is invalidated on insert so
// admins never see a stale window longer than the TTL.
type SubmissionRepository struct {
	pool        querier
	recentCache *gocache.Cache
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(pool querier, recentTTL time.Duration) *SubmissionRepository {
	return &SubmissionRepository{
		pool:        pool,
		recentCache: gocache.New(recentTTL, 2*recentTTL),
	}
}

// Insert persists a new submission and returns the server-assigned id.
// email_sent defaults to false and created_at is assigned by the database,
// so the insert either fully succeeds with an id or does not happen.
func (r *SubmissionRepository) Insert(ctx context.Context, sub *models.Submission) (int, error) {
	start := time.Now()
	operation := "insertSubmission"

	query := `
		INSERT INTO submissions (full_name, contact_number, city, interested_course, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, email_sent
	`

	err := r.pool.QueryRow(ctx, query,
		sub.FullName,
		sub.ContactNumber,
		sub.City,
		sub.InterestedCourse,
		sub.Message,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.EmailSent)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return 0, apperrors.StorageError(err)
	}

	r.recentCache.Delete(recentCacheKey)

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int("id", sub.ID))

	return sub.ID, nil
}

// MarkEmailSent sets email_sent = true for an existing record. The update is
// idempotent: repeating it on an already-marked record is a no-op, and the
// flag never reverts to false.
func (r *SubmissionRepository) MarkEmailSent(ctx context.Context, id int) error {
	start := time.Now()
	operation := "markEmailSent"

	tag, err := r.pool.Exec(ctx,
		"UPDATE submissions SET email_sent = TRUE WHERE id = $1", id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err), zap.Int("id", id))
		return apperrors.StorageError(err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Int("id", id))
		return fmt.Errorf("submission %d: %w", id, apperrors.ErrNotFound)
	}

	r.recentCache.Delete(recentCacheKey)

	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int("id", id))

	return nil
}

// ListRecent returns submissions ordered newest first, capped at limit.
func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	if cached, found := r.recentCache.Get(recentCacheKey); found {
		if entry, ok := cached.(recentEntry); ok && (entry.complete || len(entry.subs) >= limit) {
			metrics.CacheHits.WithLabelValues("recent_submissions").Inc()
			n := limit
			if n > len(entry.subs) {
				n = len(entry.subs)
			}
			return entry.subs[:n], nil
		}
	}
	metrics.CacheMisses.WithLabelValues("recent_submissions").Inc()

	start := time.Now()
	operation := "listRecentSubmissions"

	query := `
		SELECT id, full_name, contact_number, city, interested_course, message, created_at, email_sent
		FROM submissions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, MaxListLimit)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, apperrors.StorageError(err)
	}
	defer rows.Close()

	subs := make([]*models.Submission, 0, limit)
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(
			&s.ID,
			&s.FullName,
			&s.ContactNumber,
			&s.City,
			&s.InterestedCourse,
			&s.Message,
			&s.CreatedAt,
			&s.EmailSent,
		); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogDBCall(operation, "error", duration, zap.Error(err))
			return nil, apperrors.StorageError(err)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogDBCall(operation, "error", duration, zap.Error(err))
		return nil, apperrors.StorageError(err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogDBCall(operation, "success", duration, zap.Int("count", len(subs)))

	r.recentCache.SetDefault(recentCacheKey, recentEntry{
		subs:     subs,
		complete: len(subs) < MaxListLimit,
	})

	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues(operation, status).Inc()
}

// Ensure SubmissionRepository implements SubmissionStore
var _ SubmissionStore = (*SubmissionRepository)(nil)
