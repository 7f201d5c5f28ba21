package orders

import (
	"encoding/json"
	"fmt"

	domain "github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
)

// envelope is the wire format of every order-service response.
type envelope struct {
	Status bool            `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RemoteError is a failure reported by the order service itself
// (envelope status false). It carries the service message so callers
// can surface it to the operator.
type RemoteError struct {
	Op      string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("order service %s: %s", e.Op, e.Message)
}

// saveOrderData is the payload returned when the first item of a new
// order is persisted: the created order plus the new line's id.
type saveOrderData struct {
	Order  domain.Order `json:"order"`
	ItemID int64        `json:"item_id"`
}

type itemIDData struct {
	ItemID int64 `json:"item_id"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}
