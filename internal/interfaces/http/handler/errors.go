package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/menuflow"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/productflow"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/infrastructure/http/orders"
)

// respondError maps engine errors onto HTTP statuses: domain-rule
// violations are 422, a delivery-locked order is a conflict, stale
// references are 404 and order-service failures surface as 502 with
// the service message attached.
func respondError(c *gin.Context, err error) {
	var remoteErr *orders.RemoteError

	switch {
	case errors.Is(err, order.ErrOrderLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, order.ErrGroupNotFound),
		errors.Is(err, order.ErrNoActiveOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, productflow.ErrQuotaExceeded),
		errors.Is(err, productflow.ErrBelowMinimum),
		errors.Is(err, productflow.ErrVariantRequired),
		errors.Is(err, productflow.ErrUnknownVariant),
		errors.Is(err, productflow.ErrUnknownComplement),
		errors.Is(err, productflow.ErrUnknownGroup),
		errors.Is(err, menuflow.ErrPageFull),
		errors.Is(err, menuflow.ErrAlreadyConfigured),
		errors.Is(err, menuflow.ErrNotConfigured),
		errors.Is(err, menuflow.ErrProductNotOnPage),
		errors.Is(err, menuflow.ErrIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &remoteErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": remoteErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
