package client

import "errors"

var (
	ErrClientClosed     = errors.New("client is closed")
	ErrNotConnected     = errors.New("client is not connected")
	ErrAlreadyConnected = errors.New("client is already connected")
	ErrInvalidConfig    = errors.New("invalid client configuration")
	ErrNoSnapshot       = errors.New("world has no snapshot yet")
)
