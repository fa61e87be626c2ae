package retry

import (
	"context"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// taskRepository wraps a domain.TaskRepository so every call runs
// behind its own named circuit breaker, isolating a struggling
// operation (e.g. a slow FindByOwner scan) from tripping the others.
type taskRepository struct {
	inner   domain.TaskRepository
	breaker *PersistenceBreaker
}

// WrapTaskRepository decorates inner with a per-operation circuit
// breaker built from config.
func WrapTaskRepository(inner domain.TaskRepository, config Config) domain.TaskRepository {
	return &taskRepository{inner: inner, breaker: NewPersistenceBreaker(nil, config)}
}

func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	_, err := r.breaker.Do(ctx, "task_save", func(ctx context.Context) (any, error) {
		return nil, r.inner.Save(ctx, task)
	})
	return err
}

func (r *taskRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	result, err := r.breaker.Do(ctx, "task_find_by_id", func(ctx context.Context) (any, error) {
		return r.inner.FindByID(ctx, ownerID, id)
	})
	if err != nil {
		return nil, err
	}
	task, _ := result.(*domain.Task)
	return task, nil
}

func (r *taskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.Status, from, to *time.Time) ([]*domain.Task, error) {
	result, err := r.breaker.Do(ctx, "task_find_by_owner", func(ctx context.Context) (any, error) {
		return r.inner.FindByOwner(ctx, ownerID, status, from, to)
	})
	if err != nil {
		return nil, err
	}
	tasks, _ := result.([]*domain.Task)
	return tasks, nil
}

func (r *taskRepository) FindPlacedAutoScheduled(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	result, err := r.breaker.Do(ctx, "task_find_placed_auto_scheduled", func(ctx context.Context) (any, error) {
		return r.inner.FindPlacedAutoScheduled(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	tasks, _ := result.([]*domain.Task)
	return tasks, nil
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	_, err := r.breaker.Do(ctx, "task_delete", func(ctx context.Context) (any, error) {
		return nil, r.inner.Delete(ctx, ownerID, id)
	})
	return err
}

// scheduleItemRepository wraps a domain.ScheduleItemRepository the
// same way.
type scheduleItemRepository struct {
	inner   domain.ScheduleItemRepository
	breaker *PersistenceBreaker
}

// WrapScheduleItemRepository decorates inner with a per-operation
// circuit breaker built from config.
func WrapScheduleItemRepository(inner domain.ScheduleItemRepository, config Config) domain.ScheduleItemRepository {
	return &scheduleItemRepository{inner: inner, breaker: NewPersistenceBreaker(nil, config)}
}

func (r *scheduleItemRepository) Save(ctx context.Context, item *domain.ScheduleItem) error {
	_, err := r.breaker.Do(ctx, "item_save", func(ctx context.Context) (any, error) {
		return nil, r.inner.Save(ctx, item)
	})
	return err
}

func (r *scheduleItemRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ScheduleItem, error) {
	result, err := r.breaker.Do(ctx, "item_find_by_id", func(ctx context.Context) (any, error) {
		return r.inner.FindByID(ctx, ownerID, id)
	})
	if err != nil {
		return nil, err
	}
	item, _ := result.(*domain.ScheduleItem)
	return item, nil
}

func (r *scheduleItemRepository) FindByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.ScheduleItem, error) {
	result, err := r.breaker.Do(ctx, "item_find_by_task_id", func(ctx context.Context) (any, error) {
		return r.inner.FindByTaskID(ctx, ownerID, taskID)
	})
	if err != nil {
		return nil, err
	}
	item, _ := result.(*domain.ScheduleItem)
	return item, nil
}

func (r *scheduleItemRepository) FindOverlapping(ctx context.Context, ownerID uuid.UUID, from, to time.Time, excludeTaskIDs []uuid.UUID) ([]*domain.ScheduleItem, error) {
	result, err := r.breaker.Do(ctx, "item_find_overlapping", func(ctx context.Context) (any, error) {
		return r.inner.FindOverlapping(ctx, ownerID, from, to, excludeTaskIDs)
	})
	if err != nil {
		return nil, err
	}
	items, _ := result.([]*domain.ScheduleItem)
	return items, nil
}

func (r *scheduleItemRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, itemType *domain.ItemType, from, to *time.Time) ([]*domain.ScheduleItem, error) {
	result, err := r.breaker.Do(ctx, "item_find_by_owner", func(ctx context.Context) (any, error) {
		return r.inner.FindByOwner(ctx, ownerID, itemType, from, to)
	})
	if err != nil {
		return nil, err
	}
	items, _ := result.([]*domain.ScheduleItem)
	return items, nil
}

func (r *scheduleItemRepository) DeleteByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) error {
	_, err := r.breaker.Do(ctx, "item_delete_by_task_id", func(ctx context.Context) (any, error) {
		return nil, r.inner.DeleteByTaskID(ctx, ownerID, taskID)
	})
	return err
}

func (r *scheduleItemRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	_, err := r.breaker.Do(ctx, "item_delete", func(ctx context.Context) (any, error) {
		return nil, r.inner.Delete(ctx, ownerID, id)
	})
	return err
}
