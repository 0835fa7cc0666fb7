package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/backoffice-api/internal/domains/orders/domain"
)

type normalizedLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// FingerprintCheckout hashes the merged checkout lines so reordered or split
// lines of the same request produce the same fingerprint.
func FingerprintCheckout(merged []domain.Line) (string, error) {
	normalized := make([]normalizedLine, 0, len(merged))
	for _, line := range merged {
		normalized = append(normalized, normalizedLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
