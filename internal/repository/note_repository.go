package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *model.Note) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID uint) ([]model.Note, error) {
	var notes []model.Note
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&notes).Error
	return notes, err
}

// Find returns the note only when it is about userID.
func (r *NoteRepository) Find(ctx context.Context, userID, id uint) (*model.Note, error) {
	var n model.Note
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&n, id).Error; err != nil {
		return nil, notFound(err, "note", id)
	}
	return &n, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *model.Note) error {
	return r.DB.WithContext(ctx).Model(n).Update("text", n.Text).Error
}

func (r *NoteRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Note{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "note", id)
	}
	return nil
}
