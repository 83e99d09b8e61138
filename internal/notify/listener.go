package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// channelName はタスク変更トリガーが通知するチャネル名。
const channelName = "task_events"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener はPostgreSQLのLISTEN/NOTIFY経由でタスク変更イベントを購読し、
// Notifierへ引き渡す。
type Listener struct {
	notifier *Notifier
	pl       *pq.Listener
}

// NewListener はListenerを生成する。dsnは接続文字列。
func NewListener(dsn string, notifier *Notifier) *Listener {
	pl := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				slog.Error("listener connection event",
					slog.Int("event", int(event)),
					slog.String("error", err.Error()),
				)
			}
		})
	return &Listener{notifier: notifier, pl: pl}
}

// Run はチャネルの購読を開始し、コンテキストが終了するまでイベントを処理する。
func (l *Listener) Run(ctx context.Context) error {
	if err := l.pl.Listen(channelName); err != nil {
		l.pl.Close()
		return err
	}
	slog.Info("listening for task events", slog.String("channel", channelName))

	defer l.pl.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case notification := <-l.pl.Notify:
			// 再接続直後はnilが届く。取りこぼした変更は再送されない。
			if notification == nil {
				slog.Warn("listener reconnected, notifications may have been missed")
				continue
			}
			l.dispatch(ctx, []byte(notification.Extra))

		case <-time.After(pingInterval):
			if err := l.pl.Ping(); err != nil {
				slog.Error("listener ping failed", slog.String("error", err.Error()))
			}
		}
	}
}

// dispatch はペイロード1件を復号してNotifierへ渡す。
// 復号の失敗はログに記録し、後続のイベント処理を続ける。
func (l *Listener) dispatch(ctx context.Context, payload []byte) {
	event, err := DecodeEvent(payload)
	if err != nil {
		slog.Error("failed to decode task event",
			slog.String("error", err.Error()),
		)
		return
	}
	l.notifier.HandleEvent(ctx, event)
}
