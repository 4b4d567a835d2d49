package chart

import "errors"

var (
	ErrInvalidChart   = errors.New("invalid chart")
	ErrInvalidProfile = errors.New("invalid profile")
)
