package notify

import (
	"context"
	"log/slog"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

// LogNotifier writes notices to the structured log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(slog.String("component", "notifier"))}
}

func (n *LogNotifier) Notify(ctx context.Context, notice domain.Notice) {
	n.log.WarnContext(ctx, notice.Kind.Message(),
		slog.String("notice_id", notice.ID),
		slog.String("kind", string(notice.Kind)),
		slog.String("op", string(notice.Op)),
		slog.Int64("product_id", notice.ProductID),
		slog.String("reason", notice.Reason),
	)
}

// Fanout delivers every notice to each notifier in order.
type Fanout []app.Notifier

func (f Fanout) Notify(ctx context.Context, notice domain.Notice) {
	for _, n := range f {
		n.Notify(ctx, notice)
	}
}
