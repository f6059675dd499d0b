package cabinet

import "errors"

var (
	ErrUnknownTab        = errors.New("unknown cabinet tab")
	ErrNoColumnsSelected = errors.New("no export column selected")
	ErrUnknownColumn     = errors.New("unknown export column")
)
