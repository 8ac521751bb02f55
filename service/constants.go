package service

import "time"

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	// Store/publish work continues after the client goes away.
	sideEffectTimeout = 5 * time.Second
)
