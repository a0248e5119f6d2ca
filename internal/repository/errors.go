package repository

import (
	"errors"
	"sdo_backend/internal/util"

	"gorm.io/gorm"
)

// notFound turns gorm's missing-row error into util.ErrNotFound for entity/id.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NotFoundErr(entity, id)
	}
	return err
}
