package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/orbita/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteEnergySampleRepository implements domain.EnergySampleRepository
// using SQLite.
type SQLiteEnergySampleRepository struct {
	db *sql.DB
}

func NewSQLiteEnergySampleRepository(db *sql.DB) *SQLiteEnergySampleRepository {
	return &SQLiteEnergySampleRepository{db: db}
}

func (r *SQLiteEnergySampleRepository) Save(ctx context.Context, sample *domain.EnergySample) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		INSERT INTO energy_samples (
			id, owner_id, sample_date, hour, energy_level, stage, mood_label, manual_check_in, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, sample_date, hour) DO UPDATE SET
			energy_level = excluded.energy_level,
			stage = excluded.stage,
			mood_label = excluded.mood_label,
			manual_check_in = excluded.manual_check_in
	`
	_, err := exec.ExecContext(ctx, query,
		sample.ID().String(), sample.OwnerID().String(), sample.Date(), sample.Hour(), sample.EnergyLevel(),
		string(sample.Stage()), sample.MoodLabel(), sample.HasManualCheckIn(), sample.CreatedAt(),
	)
	return err
}

func (r *SQLiteEnergySampleRepository) FindByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]*domain.EnergySample, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, sample_date, hour, energy_level, stage, mood_label, manual_check_in, created_at
		FROM energy_samples
		WHERE owner_id = ? AND sample_date = ?
		ORDER BY hour
	`
	rows, err := exec.QueryContext(ctx, query, ownerID.String(), date.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteEnergySamples(rows)
}

func (r *SQLiteEnergySampleRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EnergySample, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, sample_date, hour, energy_level, stage, mood_label, manual_check_in, created_at
		FROM energy_samples
		WHERE owner_id = ?
		ORDER BY sample_date, hour
	`
	rows, err := exec.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteEnergySamples(rows)
}

func scanSQLiteEnergySamples(rows *sql.Rows) ([]*domain.EnergySample, error) {
	samples := make([]*domain.EnergySample, 0)
	for rows.Next() {
		var (
			idStr, ownerIDStr, stage, mood string
			date                           time.Time
			hour                           int
			level                          float64
			manual                         bool
			createdAt                      time.Time
		)
		if err := rows.Scan(&idStr, &ownerIDStr, &date, &hour, &level, &stage, &mood, &manual, &createdAt); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		ownerID, err := uuid.Parse(ownerIDStr)
		if err != nil {
			return nil, err
		}
		samples = append(samples, domain.RehydrateEnergySample(id, ownerID, date, hour, level, domain.Stage(stage), mood, manual, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// SQLiteHistoricalPatternRepository implements
// domain.HistoricalPatternRepository using SQLite.
type SQLiteHistoricalPatternRepository struct {
	db *sql.DB
}

func NewSQLiteHistoricalPatternRepository(db *sql.DB) *SQLiteHistoricalPatternRepository {
	return &SQLiteHistoricalPatternRepository{db: db}
}

func (r *SQLiteHistoricalPatternRepository) Upsert(ctx context.Context, pattern *domain.HistoricalEnergyPattern) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		INSERT INTO historical_energy_patterns (owner_id, hour, average_level, sample_count, stage, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, hour) DO UPDATE SET
			average_level = excluded.average_level,
			sample_count = excluded.sample_count,
			stage = excluded.stage,
			last_updated = excluded.last_updated
	`
	_, err := exec.ExecContext(ctx, query,
		pattern.OwnerID().String(), pattern.Hour(), pattern.AverageLevel(), pattern.SampleCount(),
		string(pattern.Stage()), pattern.LastUpdated(),
	)
	return err
}

func (r *SQLiteHistoricalPatternRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.HistoricalEnergyPattern, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT owner_id, hour, average_level, sample_count, stage, last_updated
		FROM historical_energy_patterns
		WHERE owner_id = ?
		ORDER BY hour
	`
	rows, err := exec.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patterns := make([]*domain.HistoricalEnergyPattern, 0)
	for rows.Next() {
		var (
			rowOwnerIDStr, stage string
			hour, count          int
			avg                  float64
			lastUpdated          time.Time
		)
		if err := rows.Scan(&rowOwnerIDStr, &hour, &avg, &count, &stage, &lastUpdated); err != nil {
			return nil, err
		}
		rowOwnerID, err := uuid.Parse(rowOwnerIDStr)
		if err != nil {
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

// SQLiteSleepScheduleRepository implements domain.SleepScheduleRepository
// using SQLite.
type SQLiteSleepScheduleRepository struct {
	db *sql.DB
}

func NewSQLiteSleepScheduleRepository(db *sql.DB) *SQLiteSleepScheduleRepository {
	return &SQLiteSleepScheduleRepository{db: db}
}

func (r *SQLiteSleepScheduleRepository) Get(ctx context.Context, ownerID uuid.UUID) (*domain.SleepSchedule, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `SELECT bedtime, wake_hour, chronotype FROM sleep_schedules WHERE owner_id = ?`
	var (
		bedtime, wakeHour int
		chronotype        string
	)
	err := exec.QueryRowContext(ctx, query, ownerID.String()).Scan(&bedtime, &wakeHour, &chronotype)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewSleepSchedule(ownerID, 23, 7, domain.ChronotypeNeutral)
		}
		return nil, err
	}
	return domain.NewSleepSchedule(ownerID, bedtime, wakeHour, domain.Chronotype(chronotype))
}

func (r *SQLiteSleepScheduleRepository) Save(ctx context.Context, schedule *domain.SleepSchedule) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		INSERT INTO sleep_schedules (owner_id, bedtime, wake_hour, chronotype)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_id) DO UPDATE SET
			bedtime = excluded.bedtime,
			wake_hour = excluded.wake_hour,
			chronotype = excluded.chronotype
	`
	_, err := exec.ExecContext(ctx, query, schedule.OwnerID().String(), schedule.Bedtime(), schedule.WakeHour(), string(schedule.Chronotype()))
	return err
}
