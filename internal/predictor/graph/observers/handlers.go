package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"

	"github.com/cartsense-poc-v1/server/internal/metrics"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

type startKey struct{ node string }

// NewAllCallbacks logs and times every graph node.
func NewAllCallbacks() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			if info == nil {
				return ctx
			}
			logx.Debug().Str("node", info.Name).Str("component", string(info.Component)).Msg("node start")
			return context.WithValue(ctx, startKey{info.Name}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			if info == nil {
				return ctx
			}
			ev := logx.Debug().Str("node", info.Name)
			if started, ok := ctx.Value(startKey{info.Name}).(time.Time); ok {
				d := time.Since(started)
				metrics.NodeDuration.WithLabelValues(info.Name).Observe(d.Seconds())
				ev = ev.Dur("took", d)
			}
			ev.Msg("node end")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			name := ""
			if info != nil {
				name = info.Name
			}
			logx.Warn().Err(err).Str("node", name).Msg("node error")
			return ctx
		}).
		Build()
}
