package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
)

type VariantRepository struct {
	DB *gorm.DB
}

func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{DB: db}
}

func (r *VariantRepository) WithTx(tx *gorm.DB) *VariantRepository {
	return &VariantRepository{DB: tx}
}

func (r *VariantRepository) Create(ctx context.Context, v *model.Variant) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *VariantRepository) FindByID(ctx context.Context, id uint) (*model.Variant, error) {
	var v model.Variant
	if err := r.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, notFound(err, "variant", id)
	}
	return &v, nil
}

func (r *VariantRepository) ListByTask(ctx context.Context, taskID uint) ([]model.Variant, error) {
	var variants []model.Variant
	err := r.DB.WithContext(ctx).Where("task_id = ?", taskID).Order("id ASC").Find(&variants).Error
	return variants, err
}

// IDsByTask returns the variant ids of a task, optionally only the correct ones.
func (r *VariantRepository) IDsByTask(ctx context.Context, taskID uint, onlyCorrect bool) ([]uint, error) {
	db := r.DB.WithContext(ctx).Model(&model.Variant{}).Where("task_id = ?", taskID)
	if onlyCorrect {
		db = db.Where("correct = ?", true)
	}
	var ids []uint
	err := db.Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *VariantRepository) Update(ctx context.Context, v *model.Variant) error {
	return r.DB.WithContext(ctx).Save(v).Error
}

func (r *VariantRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Variant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "variant", id)
		}
		return tx.Where("variant_id = ?", id).Delete(&model.UserVariant{}).Error
	})
}
