package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

// FingerprintCreate builds a deterministic hash of the create-shipment payload (excluding the idempotency key).
func FingerprintCreate(input ports.CreateInput) (string, error) {
	input.IdempotencyKey = ""
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
