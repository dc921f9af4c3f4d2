// Package nats carries seller-directory refresh signals between the api and
// the aggregator: one subject requests a recount, a second announces that
// the directory has been rewritten and snapshots should reload.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type Bus struct {
	conn             *nats.Conn
	refreshSubject   string
	refreshedSubject string
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
}

func New(url, refreshSubject, refreshedSubject string) (*Bus, error) {
	return NewWithOptions(url, refreshSubject, refreshedSubject, Options{})
}

func NewWithOptions(url, refreshSubject, refreshedSubject string, options Options) (*Bus, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("tender-aggregator"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Bus{
		conn:             conn,
		refreshSubject:   refreshSubject,
		refreshedSubject: refreshedSubject,
	}, nil
}

func (b *Bus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

func (b *Bus) PublishRefreshRequested(_ context.Context) error {
	if err := b.conn.Publish(b.refreshSubject, nil); err != nil {
		return fmt.Errorf("publish refresh request: %w", err)
	}
	return nil
}

// SubscribeRefreshRequested blocks until ctx is cancelled, invoking handler
// for every recount request. Used by the aggregator binary.
func (b *Bus) SubscribeRefreshRequested(ctx context.Context, handler func(context.Context) error) error {
	return b.subscribe(ctx, b.refreshSubject, "aggregators", handler)
}

func (b *Bus) PublishSellersRefreshed(_ context.Context) error {
	if err := b.conn.Publish(b.refreshedSubject, nil); err != nil {
		return fmt.Errorf("publish refreshed notification: %w", err)
	}
	return nil
}

// SubscribeSellersRefreshed blocks until ctx is cancelled, invoking handler
// whenever the aggregator rewrites the directory. Every api instance gets
// its own delivery (no queue group) so each reloads its snapshot.
func (b *Bus) SubscribeSellersRefreshed(ctx context.Context, handler func(context.Context) error) error {
	return b.subscribe(ctx, b.refreshedSubject, "", handler)
}

func (b *Bus) subscribe(ctx context.Context, subject, group string, handler func(context.Context) error) error {
	callback := messageCallback(ctx, subject, handler)

	var (
		sub *nats.Subscription
		err error
	)
	if group == "" {
		sub, err = b.conn.Subscribe(subject, callback)
	} else {
		sub, err = b.conn.QueueSubscribe(subject, group, callback)
	}
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	if err := b.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := b.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// messageCallback wraps handler for delivery. Messages arriving after the
// subscription context is done for any reason (cancellation or deadline)
// are dropped; drained subscriptions can still deliver a few.
func messageCallback(ctx context.Context, subject string, handler func(context.Context) error) func(*nats.Msg) {
	return func(_ *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx); err != nil {
			slog.Error("bus_handler_failed", "subject", subject, "error", err)
		}
	}
}
