package repository

import (
	"context"

	"github.com/lshigami/litdrill/internal/model"
	"gorm.io/gorm"
)

type ReviewCardRepository interface {
	Create(ctx context.Context, card *model.ReviewCard) error
	FindByMessageRef(ctx context.Context, ref string) (*model.ReviewCard, error)
	FindLatestByAssignment(ctx context.Context, assignmentID uint) (*model.ReviewCard, error)
	FindLatestByQuestion(ctx context.Context, questionID uint) (*model.ReviewCard, error)
	UpdateAnnotations(ctx context.Context, card *model.ReviewCard) error
}

type reviewCardRepository struct {
	db *gorm.DB
}

func NewReviewCardRepository(db *gorm.DB) ReviewCardRepository {
	return &reviewCardRepository{db: db}
}

func (r *reviewCardRepository) Create(ctx context.Context, card *model.ReviewCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *reviewCardRepository) FindByMessageRef(ctx context.Context, ref string) (*model.ReviewCard, error) {
	var card model.ReviewCard
	if err := r.db.WithContext(ctx).Where("message_ref = ?", ref).First(&card).Error; err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

func (r *reviewCardRepository) FindLatestByAssignment(ctx context.Context, assignmentID uint) (*model.ReviewCard, error) {
	var card model.ReviewCard
	if err := r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID).Order("id DESC").First(&card).Error; err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

func (r *reviewCardRepository) FindLatestByQuestion(ctx context.Context, questionID uint) (*model.ReviewCard, error) {
	var card model.ReviewCard
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).Order("id DESC").First(&card).Error; err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

func (r *reviewCardRepository) UpdateAnnotations(ctx context.Context, card *model.ReviewCard) error {
	return r.db.WithContext(ctx).Model(card).Update("annotations", card.Annotations).Error
}
