package repository

import (
	"context"

	"github.com/lshigami/litdrill/internal/model"
	"gorm.io/gorm"
)

type LearnerRepository interface {
	Create(ctx context.Context, learner *model.Learner) error
	FindByChatID(ctx context.Context, chatID int64) (*model.Learner, error)
	UpdateName(ctx context.Context, id uint, name string) error
}

type learnerRepository struct {
	db *gorm.DB
}

func NewLearnerRepository(db *gorm.DB) LearnerRepository {
	return &learnerRepository{db: db}
}

func (r *learnerRepository) Create(ctx context.Context, learner *model.Learner) error {
	return r.db.WithContext(ctx).Create(learner).Error
}

func (r *learnerRepository) FindByChatID(ctx context.Context, chatID int64) (*model.Learner, error) {
	var learner model.Learner
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&learner).Error; err != nil {
		return nil, translate(err)
	}
	return &learner, nil
}

func (r *learnerRepository) UpdateName(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&model.Learner{}).Where("id = ?", id).Update("display_name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
