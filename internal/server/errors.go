package server

import "errors"

var (
	ErrServer   = errors.New("server error")
	ErrStartup  = errors.New("startup failed")
	ErrDispatch = errors.New("dispatch failed")
)
