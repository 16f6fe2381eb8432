package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sgeduc/sge-backend/internal/config"
	"github.com/sgeduc/sge-backend/internal/model"
)

const (
	StatsBatchSize    = 50
	StatsBatchTimeout = 2 * time.Second
	StatsPollTimeout  = 1 * time.Second
)

// StatsWorker drains the stats refresh queue and recomputes teacher workload
// aggregates into Redis. Mutations only enqueue markers; the fold over the
// slot table happens here, off the request path.
type StatsWorker struct {
	pool          *pgxpool.Pool
	rdb           *redis.Client
	log           zerolog.Logger
	flushInterval time.Duration
}

// NewStatsWorker creates a StatsWorker. flushInterval bounds how long a
// partial batch waits before being flushed (STATS_REFRESH_SECONDS);
// non-positive values fall back to StatsBatchTimeout.
func NewStatsWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger, flushInterval time.Duration) *StatsWorker {
	if flushInterval <= 0 {
		flushInterval = StatsBatchTimeout
	}
	return &StatsWorker{
		pool:          pool,
		rdb:           rdb,
		log:           log.With().Str("component", "stats_worker").Logger(),
		flushInterval: flushInterval,
	}
}

type refreshMarker struct {
	TeacherID string `json:"teacher_id"`
	Year      int    `json:"year"`
	Term      int    `json:"term"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *StatsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("StatsWorker started")

	batch := make([]refreshMarker, 0, StatsBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= StatsBatchSize || time.Since(lastFlush) >= w.flushInterval) {

			w.flush(context.Background(), batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, StatsPollTimeout, config.WorkerKey.StatsRefreshQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var m refreshMarker
			if err := json.Unmarshal([]byte(item[1]), &m); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, m)
		}
	}
}

// flush deduplicates markers, then recomputes one workload per distinct
// (teacher, year, term). A burst of slot mutations for the same teacher
// costs a single query.
func (w *StatsWorker) flush(ctx context.Context, batch []refreshMarker) {
	if len(batch) == 0 {
		return
	}

	seen := make(map[refreshMarker]struct{}, len(batch))
	for _, m := range batch {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}

		if err := w.refreshOne(ctx, m); err != nil {
			w.log.Error().
				Err(err).
				Str("teacher_id", m.TeacherID).
				Int("year", m.Year).
				Int("term", m.Term).
				Msg("Workload refresh failed — requeueing")
			raw, _ := json.Marshal(m)
			w.rdb.RPush(ctx, config.WorkerKey.StatsRefreshQueue, raw)
		}
	}
}

func (w *StatsWorker) refreshOne(ctx context.Context, m refreshMarker) error {
	teacherID, err := uuid.Parse(m.TeacherID)
	if err != nil {
		// Malformed marker; dropping beats an infinite requeue loop.
		w.log.Warn().Str("teacher_id", m.TeacherID).Msg("Dropping marker with bad teacher id")
		return nil
	}

	workload := model.TeacherWorkload{
		TeacherID:    teacherID,
		AcademicYear: m.Year,
		Term:         m.Term,
	}
	err = w.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(end_minute - start_minute), 0), COUNT(*)
		FROM schedule_slots
		WHERE teacher_id = $1 AND academic_year = $2 AND term = $3 AND status = 'ACTIVE'`,
		teacherID, m.Year, m.Term,
	).Scan(&workload.WeeklyMinutes, &workload.LessonCount)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(workload)
	if err != nil {
		return err
	}

	key := config.CacheKey.TeacherWorkloadKey(m.TeacherID, m.Year, m.Term)
	return w.rdb.Set(ctx, key, raw, 0).Err()
}
