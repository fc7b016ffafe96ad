package domain

import "time"

type Op string

const (
	OpAdd         Op = "add"
	OpRemove      Op = "remove"
	OpSetQuantity Op = "set_quantity"
)

type NoticeKind string

const (
	NoticeInsufficientStock NoticeKind = "insufficient stock"
	NoticeAddFailed         NoticeKind = "add failed"
	NoticeRemoveFailed      NoticeKind = "remove failed"
	NoticeUpdateFailed      NoticeKind = "update failed"
)

// Message is the text shown to the shopper.
func (k NoticeKind) Message() string {
	switch k {
	case NoticeInsufficientStock:
		return "Requested quantity is out of stock"
	case NoticeAddFailed:
		return "Could not add the product"
	case NoticeRemoveFailed:
		return "Could not remove the product"
	case NoticeUpdateFailed:
		return "Could not change the product quantity"
	default:
		return string(k)
	}
}

// Notice is the advisory signal emitted once per failed operation.
type Notice struct {
	ID        string
	Kind      NoticeKind
	Op        Op
	ProductID int64
	Reason    string
	At        time.Time
}

// FailureNotice picks the notice kind for a failure of op. Stock shortfalls
// always surface as "insufficient stock"; anything else is the generic
// failure of the operation.
func FailureNotice(op Op, outOfStock bool) NoticeKind {
	if outOfStock {
		return NoticeInsufficientStock
	}
	switch op {
	case OpAdd:
		return NoticeAddFailed
	case OpRemove:
		return NoticeRemoveFailed
	default:
		return NoticeUpdateFailed
	}
}
