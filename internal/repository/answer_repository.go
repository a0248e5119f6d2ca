package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) WithTx(tx *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: tx}
}

func (r *AnswerRepository) Create(ctx context.Context, a *model.Answer) error {
	return r.DB.WithContext(ctx).Omit("Reviews").Create(a).Error
}

func (r *AnswerRepository) FindByID(ctx context.Context, id uint) (*model.Answer, error) {
	var a model.Answer
	if err := r.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err, "answer", id)
	}
	return &a, nil
}

// ListByRelation returns the answer history of a relation, oldest first, with reviews.
func (r *AnswerRepository) ListByRelation(ctx context.Context, relationID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("reviews.id ASC") }).
		Where("relation_id = ?", relationID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

// LatestByRelations returns the newest answer of each relation that has one.
func (r *AnswerRepository) LatestByRelations(ctx context.Context, relationIDs []uint) (map[uint]model.Answer, error) {
	out := make(map[uint]model.Answer, len(relationIDs))
	if len(relationIDs) == 0 {
		return out, nil
	}
	latest := r.DB.Model(&model.Answer{}).Select("MAX(id)").Where("relation_id IN ?", relationIDs).Group("relation_id")

	var answers []model.Answer
	if err := r.DB.WithContext(ctx).Where("id IN (?)", latest).Find(&answers).Error; err != nil {
		return nil, err
	}
	for _, a := range answers {
		out[a.RelationID] = a
	}
	return out, nil
}

func (r *AnswerRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Answer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "answer", id)
		}
		return tx.Where("answer_id = ?", id).Delete(&model.Review{}).Error
	})
}

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: tx}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepository) ListByAnswer(ctx context.Context, answerID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.DB.WithContext(ctx).Where("answer_id = ?", answerID).Order("id ASC").Find(&reviews).Error
	return reviews, err
}
