package engine

import "errors"

// Recoverable conditions returned to the API boundary. None leave
// partial state behind: the enclosing atomic scope rolls back.
var (
	ErrMarketNotOpen           = errors.New("market is not open for betting")
	ErrInvalidGameType         = errors.New("game type is not offered by this market")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrMarketNotClosed         = errors.New("market is not closed")
	ErrInvalidStatusTransition = errors.New("invalid market status transition")
	ErrValidation              = errors.New("invalid input")
)
