package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultBuffer = 256

// Publisher is the subset of *amqp.Channel the notifier uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Notifier publishes notices to a topic exchange with routing key
// "cart.notice.<op>" so UIs can subscribe per operation.
//
// Notify only enqueues. A single goroutine publishes from a bounded queue;
// when the queue is full the notice is dropped and logged. Close drains
// what is queued.
type Notifier struct {
	ch       Publisher
	exchange string
	log      *slog.Logger

	mu      sync.Mutex
	closed  bool
	queue   chan outgoing
	done    chan struct{}
	dropped atomic.Int64
}

func NewNotifier(ch Publisher, exchange string, buffer int, log *slog.Logger) *Notifier {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	n := &Notifier{
		ch:       ch,
		exchange: exchange,
		log:      log,
		queue:    make(chan outgoing, buffer),
		done:     make(chan struct{}),
	}
	go n.loop()
	return n
}

type outgoing struct {
	key string
	msg amqp.Publishing
}

type noticeMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Op        string    `json:"op"`
	ProductID int64     `json:"product_id"`
	At        time.Time `json:"at"`
}

func RoutingKey(op domain.Op) string {
	return "cart.notice." + string(op)
}

func (n *Notifier) Notify(ctx context.Context, notice domain.Notice) {
	body, err := json.Marshal(noticeMessage{
		ID:        notice.ID,
		Kind:      string(notice.Kind),
		Message:   notice.Kind.Message(),
		Op:        string(notice.Op),
		ProductID: notice.ProductID,
		At:        notice.At.UTC(),
	})
	if err != nil {
		n.log.Error("marshal notice", slog.Any("err", err))
		return
	}

	out := outgoing{
		key: RoutingKey(notice.Op),
		msg: amqp.Publishing{
			ContentType: "application/json",
			MessageId:   notice.ID,
			Timestamp:   notice.At,
			Type:        string(notice.Kind),
			Body:        body,
		},
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		n.drop(notice, "notifier closed")
		return
	}
	select {
	case n.queue <- out:
	default:
		n.drop(notice, "queue full")
	}
}

func (n *Notifier) drop(notice domain.Notice, reason string) {
	n.dropped.Add(1)
	n.log.Warn("notice dropped",
		slog.String("notice_id", notice.ID),
		slog.String("op", string(notice.Op)),
		slog.String("reason", reason),
	)
}

// Dropped reports how many notices were discarded without publishing.
func (n *Notifier) Dropped() int64 {
	return n.dropped.Load()
}

// Close stops accepting notices and waits until the queue is published.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
}

func (n *Notifier) loop() {
	defer close(n.done)
	for out := range n.queue {
		err := n.ch.PublishWithContext(context.Background(), n.exchange, out.key, false, false, out.msg)
		if err != nil {
			n.log.Warn("publish notice failed", slog.String("notice_id", out.msg.MessageId), slog.Any("err", err))
		}
	}
}
