package repository

import (
	"context"

	"github.com/lshigami/litdrill/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	WithTx(tx *gorm.DB) AssignmentRepository
	// CreateIfAbsent inserts the assignment unless the (learner, question)
	// pair already exists. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, assignment *model.Assignment) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.Assignment, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Assignment, error)
	CountForDay(ctx context.Context, learnerID uint, day string) (int64, error)
	// FindDebts returns incorrect assignments not dated day whose question is
	// still active, oldest first. A limit <= 0 returns all of them.
	FindDebts(ctx context.Context, learnerID uint, day string, limit int) ([]model.Assignment, error)
	FindPendingForDay(ctx context.Context, learnerID uint, day string) ([]model.Assignment, error)
	FindForDay(ctx context.Context, learnerID uint, day string) ([]model.Assignment, error)
	Grade(ctx context.Context, id uint, status model.AssignmentStatus, submitted string, day string) error
	SetStatus(ctx context.Context, id uint, status model.AssignmentStatus) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: tx}
}

func (r *assignmentRepository) CreateIfAbsent(ctx context.Context, assignment *model.Assignment) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "learner_id"}, {Name: "question_id"}},
			DoNothing: true,
		}).
		Create(assignment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.WithContext(ctx).Preload("Question").First(&assignment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Assignment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var assignments []model.Assignment
	if err := r.db.WithContext(ctx).Preload("Question").Where("id IN ?", ids).Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) CountForDay(ctx context.Context, learnerID uint, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("learner_id = ? AND assigned_date = ?", learnerID, day).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepository) FindDebts(ctx context.Context, learnerID uint, day string, limit int) ([]model.Assignment, error) {
	q := r.db.WithContext(ctx).
		Joins("Question").
		Where("assignments.learner_id = ? AND assignments.status = ? AND assignments.assigned_date <> ?",
			learnerID, model.StatusIncorrect, day).
		Where("\"Question\".\"active\" = ?", true).
		Order("assignments.assigned_date ASC, assignments.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var debts []model.Assignment
	if err := q.Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

func (r *assignmentRepository) FindPendingForDay(ctx context.Context, learnerID uint, day string) ([]model.Assignment, error) {
	var pending []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("learner_id = ? AND assigned_date = ? AND status = ?", learnerID, day, model.StatusPending).
		Order("id ASC").
		Find(&pending).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *assignmentRepository) FindForDay(ctx context.Context, learnerID uint, day string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("learner_id = ? AND assigned_date = ?", learnerID, day).
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) Grade(ctx context.Context, id uint, status model.AssignmentStatus, submitted string, day string) error {
	res := r.db.WithContext(ctx).Model(&model.Assignment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         status,
		"submitted_text": submitted,
		"assigned_date":  day,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) SetStatus(ctx context.Context, id uint, status model.AssignmentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Assignment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
