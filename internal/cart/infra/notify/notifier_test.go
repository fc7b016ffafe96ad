package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

type recorder struct {
	got []domain.Notice
}

func (r *recorder) Notify(ctx context.Context, n domain.Notice) {
	r.got = append(r.got, n)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	n.Notify(context.Background(), domain.Notice{
		ID:        "n-1",
		Kind:      domain.NoticeInsufficientStock,
		Op:        domain.OpAdd,
		ProductID: 7,
	})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line not JSON: %v (%s)", err, buf.String())
	}
	if line["level"] != "WARN" || line["kind"] != "insufficient stock" || line["product_id"] != float64(7) {
		t.Fatalf("got %v", line)
	}
	if line["msg"] != domain.NoticeInsufficientStock.Message() {
		t.Fatalf("msg %v", line["msg"])
	}
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Fanout{a, b}.Notify(context.Background(), domain.Notice{Kind: domain.NoticeRemoveFailed})

	if len(a.got) != 1 || len(b.got) != 1 || b.got[0].Kind != domain.NoticeRemoveFailed {
		t.Fatalf("got a=%v b=%v", a.got, b.got)
	}
}
