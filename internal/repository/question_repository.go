package repository

import (
	"context"

	"github.com/lshigami/litdrill/internal/model"
	"gorm.io/gorm"
)

// QuestionFilter narrows List. Nil fields are ignored.
type QuestionFilter struct {
	Line   *int
	Active *bool
}

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	CreateBatch(ctx context.Context, questions []model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	List(ctx context.Context, filter QuestionFilter) ([]model.Question, error)
	// UnseenIDsByLine returns active questions on line never assigned to the learner.
	UnseenIDsByLine(ctx context.Context, learnerID uint, line int) ([]uint, error)
	SetActive(ctx context.Context, id uint, active bool) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(questions, 100).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter) ([]model.Question, error) {
	q := r.db.WithContext(ctx).Model(&model.Question{})
	if filter.Line != nil {
		q = q.Where("line = ?", *filter.Line)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	var questions []model.Question
	if err := q.Order("line ASC, id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) UnseenIDsByLine(ctx context.Context, learnerID uint, line int) ([]uint, error) {
	seen := r.db.Model(&model.Assignment{}).Select("question_id").Where("learner_id = ?", learnerID)
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Question{}).
		Where("line = ? AND active = ?", line, true).
		Where("id NOT IN (?)", seen).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *questionRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
