package engine

import (
	"context"
	"time"
)

type simpleTimeManager struct {
	ctx      context.Context
	cancel   context.CancelFunc
	maxNodes int64
}

func newSimpleTimeManager(ctx context.Context, start time.Time,
	moveTime time.Duration, maxNodes int64) *simpleTimeManager {

	var tm = &simpleTimeManager{
		maxNodes: maxNodes,
	}
	if moveTime > 0 {
		tm.ctx, tm.cancel = context.WithDeadline(ctx, start.Add(moveTime))
	} else {
		tm.ctx, tm.cancel = context.WithCancel(ctx)
	}
	return tm
}

func (tm *simpleTimeManager) OnNodesChanged(nodes int64) {
	if tm.maxNodes > 0 && nodes >= tm.maxNodes {
		tm.cancel()
	}
}

func (tm *simpleTimeManager) IsDone() bool {
	select {
	case <-tm.ctx.Done():
		return true
	default:
		return false
	}
}

func (tm *simpleTimeManager) Close() {
	tm.cancel()
}
