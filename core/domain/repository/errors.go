package repository

import "errors"

var (
	ErrRecordNotFound = errors.New("session record not found")
	ErrStoreDisabled  = errors.New("session record store disabled")

	ErrMongodb = errors.New("mongodb error happen")
	ErrRedis   = errors.New("redis error happen")
)
