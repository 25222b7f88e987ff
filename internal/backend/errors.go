package backend

import (
	"errors"

	"github.com/housersapp/housers/internal/common"
)

var (
	ErrUnavailable  = common.ErrNetwork
	ErrUnauthorized = common.ErrUnauthorized
	ErrNotFound     = common.ErrNotFound

	ErrUnexpectedStatus = errors.New("unexpected response status")
)
