package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user", 0)
	}
	return &user, nil
}

// List returns users ordered by username, optionally filtered by a username/name fragment.
func (r *UserRepository) List(ctx context.Context, query string, page, limit int) ([]model.User, int64, error) {
	db := r.DB.WithContext(ctx).Model(&model.User{})
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := db.Order("username ASC").Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) All(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// ExistingIDs returns the subset of ids that belong to a user.
func (r *UserRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

// Delete removes the user together with everything that belongs to them.
// Catalog rows they authored survive with author_id cleared.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user", id)
		}

		relations := tx.Model(&model.UserTaskRelation{}).Select("id").Where("user_id = ?", id)
		answers := tx.Model(&model.Answer{}).Select("id").Where("relation_id IN (?) OR author_id = ?", relations, id)

		if err := tx.Where("answer_id IN (?)", answers).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("relation_id IN (?) OR author_id = ?", relations, id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserTaskRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserTaskCaseRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&model.Note{}).Error; err != nil {
			return err
		}

		for _, authored := range []interface{}{&model.TaskCase{}, &model.Task{}, &model.Variant{}, &model.Review{}} {
			if err := tx.Model(authored).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})
}
