package casso

import "go.uber.org/zap"

// zapVar renders a Var as a zap field via zap.Stringer, which defers the
// String call until the entry is encoded — cheap enough to call
// unconditionally even when the configured logger discards the entry.
func zapVar(key string, v Var) zap.Field {
	return zap.Stringer(key, v)
}
