package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// 一意制約（slug / email）違反
	ErrConflict = errors.New("conflict")

	// DBに接続できない
	ErrUnavailable = errors.New("storage unavailable")
)
