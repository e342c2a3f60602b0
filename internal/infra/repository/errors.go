package repository

import "errors"

var (
	ErrRedisConnection     = errors.New("redis connection error")
	ErrInvalidProductData  = errors.New("invalid product data")
	ErrInvalidSettingsData = errors.New("invalid settings data")
)
