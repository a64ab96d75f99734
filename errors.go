package main

import "errors"

var (
	ErrUnknownDictionary  = errors.New("unknown marker dictionary")
	ErrInvalidMarkerID    = errors.New("invalid marker ID")
	ErrInvalidMarkerSize  = errors.New("invalid marker size")
	ErrInvalidBorderRatio = errors.New("invalid border ratio")
	ErrInvalidDPI         = errors.New("invalid DPI")
	ErrCodebook           = errors.New("codebook lookup failed")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrConfigNotFound     = errors.New("config file not found")
	ErrConfigParse        = errors.New("failed to parse config")
)
