package domain

import "errors"

var (
	// ErrUnknownLeg se devuelve cuando el nombre de pata no es btc-call|btc-put|eth-call|eth-put.
	ErrUnknownLeg = errors.New("unknown option leg")

	// ErrNoPrices se devuelve cuando un upstream no devuelve ninguna cotización.
	ErrNoPrices = errors.New("no prices returned")

	// ErrOptimizeRunning se devuelve si se pide una optimización con otra en curso.
	ErrOptimizeRunning = errors.New("optimization already running")
)
