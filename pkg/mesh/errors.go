package mesh

import "errors"

var (
	// ErrManagerClosed indicates the session manager has been closed
	ErrManagerClosed = errors.New("manager is closed")

	// ErrNoTransport indicates no signaling transport was supplied
	ErrNoTransport = errors.New("signaling transport is required")

	// ErrRestartBudgetExhausted indicates the ICE restart budget is spent
	ErrRestartBudgetExhausted = errors.New("ICE restart budget exhausted")
)
