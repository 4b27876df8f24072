package batch

import (
	"time"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// MaterialUsage records one raw material consumed by the batch, with the
// lot expiration date for traceability
type MaterialUsage struct {
	Material       shared.RawMaterial `json:"rawMaterial"`
	Quantity       float64            `json:"quantity"`
	ExpirationDate time.Time          `json:"expirationDate"`
}
