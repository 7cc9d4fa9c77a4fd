package gamebase

import "go.uber.org/zap"

// logger receives pool resize and quadtree depth diagnostics. Silent until
// SetLogger is called.
var logger = zap.NewNop()

// SetLogger routes gamebase diagnostics to l. Passing nil restores the
// no-op logger. Not safe to call concurrently with pool or quadtree use.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named("gamebase")
}
