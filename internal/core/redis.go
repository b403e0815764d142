// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/silvershift/internal/config"
)

// slowCommand is the latency above which a command is logged at Warn.
const slowCommand = 100 * time.Millisecond

// Redis owns the shared client used by the redis storage backend and the
// rate limiter.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)
	client.AddHook(commandHook{})

	r := &Redis{Client: client}
	if err := r.Ping(ctx); err != nil {
		_ = client.Close() //nolint:errcheck // cleanup on connection failure
		return nil, err
	}

	return r, nil
}

func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

// commandHook traces each command and logs the slow ones. Profile
// storage hits Redis on every session and favorite write, so this is
// where storage latency shows up.
type commandHook struct{}

func (commandHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (commandHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := Tracer("redis").Start(ctx, "redis."+cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attribute.String("db.system", "redis")),
		)

		start := time.Now()
		err := next(ctx, cmd)
		logSlow(cmd.Name(), 1, time.Since(start))

		if errors.Is(err, redis.Nil) {
			EndSpan(span, nil)
		} else {
			EndSpan(span, err)
		}
		return err
	}
}

func (commandHook) ProcessPipelineHook(
	next redis.ProcessPipelineHook,
) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := Tracer("redis").Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", "redis"),
				attribute.Int("redis.pipeline_length", len(cmds)),
			),
		)

		start := time.Now()
		err := next(ctx, cmds)
		logSlow("pipeline", len(cmds), time.Since(start))

		EndSpan(span, err)
		return err
	}
}

func logSlow(name string, n int, elapsed time.Duration) {
	if elapsed < slowCommand {
		return
	}
	slog.Warn("slow redis command",
		"command", name,
		"commands", n,
		"duration", elapsed,
	)
}
