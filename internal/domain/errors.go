package domain

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateCode    = errors.New("product code already exists")
	ErrSettingsNotFound = errors.New("notification settings not found")
)
