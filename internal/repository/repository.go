package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found in database")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
