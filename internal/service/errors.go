package service

import (
	"errors"
	"sdo_backend/internal/util"
)

func isNotFound(err error) bool {
	return errors.Is(err, util.ErrNotFound)
}
