// Package onboarding gates the first-run flow behind a single persisted
// flag. Storage failures are swallowed: a broken store just means the
// user sees onboarding again.
package onboarding

import (
	"context"

	"go.uber.org/zap"

	"svw.info/tacticsfeed/internal/ports"
)

const key = "onboarding/completed"

type Gate struct {
	kv  ports.KeyValue
	log *zap.SugaredLogger
}

func NewGate(kv ports.KeyValue, log *zap.SugaredLogger) *Gate {
	return &Gate{kv: kv, log: log}
}

// Completed reports whether onboarding was finished before. Read errors
// degrade to false.
func (g *Gate) Completed(ctx context.Context) bool {
	if g.kv == nil {
		return false
	}
	val, found, err := g.kv.Get(ctx, key)
	if err != nil {
		if g.log != nil {
			g.log.Debugw("onboarding flag read failed", "err", err)
		}
		return false
	}
	return found && string(val) == "1"
}

// MarkCompleted records the flag. Write errors are logged and dropped.
func (g *Gate) MarkCompleted(ctx context.Context) {
	if g.kv == nil {
		return
	}
	if err := g.kv.Set(ctx, key, []byte("1")); err != nil && g.log != nil {
		g.log.Warnw("onboarding flag write failed", "err", err)
	}
}
