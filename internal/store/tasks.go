package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/models"
)

// CreateTask inserts t and returns it with the id the database assigned.
// Any id already set on t is discarded.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&t).Error
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Order("id ASC").Find(&tasks).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask overwrites title, description and completed on the task with
// the given id. It returns ErrNotFound if there is no such task.
func (s *Store) UpdateTask(ctx context.Context, id int64, t models.Task) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Task
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Select forces zero values (completed=false, empty strings) to be written.
		return tx.Model(&existing).
			Select("title", "description", "completed").
			Updates(models.Task{Title: t.Title, Description: t.Description, Completed: t.Completed}).
			Error
	})
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return nil
}

// DeleteTask removes the task with the given id, or returns ErrNotFound.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
