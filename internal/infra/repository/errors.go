package repository

import (
	"database/sql/driver"
	"errors"
	"net"

	repo "treeshop/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// gormのエラーをrepositoryのエラーに寄せる
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrConflict
	case errors.Is(err, driver.ErrBadConn), errors.As(err, &connErr), errors.As(err, &netErr):
		// DBに届いていない
		return errors.Join(repo.ErrUnavailable, err)
	default:
		return err
	}
}
