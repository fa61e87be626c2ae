package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/orbita/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEnergySampleRepository implements domain.EnergySampleRepository
// using PostgreSQL.
type PostgresEnergySampleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEnergySampleRepository(pool *pgxpool.Pool) *PostgresEnergySampleRepository {
	return &PostgresEnergySampleRepository{pool: pool}
}

func (r *PostgresEnergySampleRepository) Save(ctx context.Context, sample *domain.EnergySample) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		INSERT INTO energy_samples (
			id, owner_id, sample_date, hour, energy_level, stage, mood_label, manual_check_in, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id, sample_date, hour) DO UPDATE SET
			energy_level = EXCLUDED.energy_level,
			stage = EXCLUDED.stage,
			mood_label = EXCLUDED.mood_label,
			manual_check_in = EXCLUDED.manual_check_in
	`
	_, err := exec.Exec(ctx, query,
		sample.ID(), sample.OwnerID(), sample.Date(), sample.Hour(), sample.EnergyLevel(),
		string(sample.Stage()), sample.MoodLabel(), sample.HasManualCheckIn(), sample.CreatedAt(),
	)
	return err
}

func (r *PostgresEnergySampleRepository) FindByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]*domain.EnergySample, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, sample_date, hour, energy_level, stage, mood_label, manual_check_in, created_at
		FROM energy_samples
		WHERE owner_id = $1 AND sample_date = $2
		ORDER BY hour
	`
	rows, err := exec.Query(ctx, query, ownerID, date.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnergySamples(rows)
}

func (r *PostgresEnergySampleRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EnergySample, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, sample_date, hour, energy_level, stage, mood_label, manual_check_in, created_at
		FROM energy_samples
		WHERE owner_id = $1
		ORDER BY sample_date, hour
	`
	rows, err := exec.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnergySamples(rows)
}

func scanEnergySamples(rows pgx.Rows) ([]*domain.EnergySample, error) {
	samples := make([]*domain.EnergySample, 0)
	for rows.Next() {
		var (
			id        uuid.UUID
			ownerID   uuid.UUID
			date      time.Time
			hour      int
			level     float64
			stage     string
			mood      string
			manual    bool
			createdAt time.Time
		)
		if err := rows.Scan(&id, &ownerID, &date, &hour, &level, &stage, &mood, &manual, &createdAt); err != nil {
			return nil, err
		}
		samples = append(samples, domain.RehydrateEnergySample(id, ownerID, date, hour, level, domain.Stage(stage), mood, manual, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// PostgresHistoricalPatternRepository implements
// domain.HistoricalPatternRepository using PostgreSQL.
type PostgresHistoricalPatternRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresHistoricalPatternRepository(pool *pgxpool.Pool) *PostgresHistoricalPatternRepository {
	return &PostgresHistoricalPatternRepository{pool: pool}
}

func (r *PostgresHistoricalPatternRepository) Upsert(ctx context.Context, pattern *domain.HistoricalEnergyPattern) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		INSERT INTO historical_energy_patterns (owner_id, hour, average_level, sample_count, stage, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, hour) DO UPDATE SET
			average_level = EXCLUDED.average_level,
			sample_count = EXCLUDED.sample_count,
			stage = EXCLUDED.stage,
			last_updated = EXCLUDED.last_updated
	`
	_, err := exec.Exec(ctx, query,
		pattern.OwnerID(), pattern.Hour(), pattern.AverageLevel(), pattern.SampleCount(),
		string(pattern.Stage()), pattern.LastUpdated(),
	)
	return err
}

func (r *PostgresHistoricalPatternRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.HistoricalEnergyPattern, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT owner_id, hour, average_level, sample_count, stage, last_updated
		FROM historical_energy_patterns
		WHERE owner_id = $1
		ORDER BY hour
	`
	rows, err := exec.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patterns := make([]*domain.HistoricalEnergyPattern, 0)
	for rows.Next() {
		var (
			rowOwnerID  uuid.UUID
			hour        int
			avg         float64
			count       int
			stage       string
			lastUpdated time.Time
		)
		if err := rows.Scan(&rowOwnerID, &hour, &avg, &count, &stage, &lastUpdated); err != nil {
			return nil, err
		}
		pattern, err := domain.NewHistoricalEnergyPattern(rowOwnerID, hour, avg, count, domain.Stage(stage), lastUpdated)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// PostgresSleepScheduleRepository implements domain.SleepScheduleRepository
// using PostgreSQL.
type PostgresSleepScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSleepScheduleRepository(pool *pgxpool.Pool) *PostgresSleepScheduleRepository {
	return &PostgresSleepScheduleRepository{pool: pool}
}

func (r *PostgresSleepScheduleRepository) Get(ctx context.Context, ownerID uuid.UUID) (*domain.SleepSchedule, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `SELECT bedtime, wake_hour, chronotype FROM sleep_schedules WHERE owner_id = $1`
	var (
		bedtime, wakeHour int
		chronotype        string
	)
	err := exec.QueryRow(ctx, query, ownerID).Scan(&bedtime, &wakeHour, &chronotype)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.NewSleepSchedule(ownerID, 23, 7, domain.ChronotypeNeutral)
		}
		return nil, err
	}
	return domain.NewSleepSchedule(ownerID, bedtime, wakeHour, domain.Chronotype(chronotype))
}

func (r *PostgresSleepScheduleRepository) Save(ctx context.Context, schedule *domain.SleepSchedule) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		INSERT INTO sleep_schedules (owner_id, bedtime, wake_hour, chronotype)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id) DO UPDATE SET
			bedtime = EXCLUDED.bedtime,
			wake_hour = EXCLUDED.wake_hour,
			chronotype = EXCLUDED.chronotype
	`
	_, err := exec.Exec(ctx, query, schedule.OwnerID(), schedule.Bedtime(), schedule.WakeHour(), string(schedule.Chronotype()))
	return err
}
