package config

import "errors"

var (
	ErrConfigStructMustBeStruct = errors.New("[CONFIG] config struct must be a struct")
	ErrValueIsRequired          = errors.New("[CONFIG] value is required")
	ErrInvalidEnvValue          = errors.New("[CONFIG] invalid environment value")
	ErrInvalidDotEnvFileFormat  = errors.New("[CONFIG] invalid .env file format")
)
