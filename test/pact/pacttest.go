//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "courier-api"
	ConsumerName = "courier-admin-portal"

	StateShipmentsBaseline = "shipments baseline"
	StateShipmentExists    = "shipment SHP001 exists"
	StateShipmentMissing   = "no shipment SHP404"
	StatePricing           = "default price table"
)

const (
	ExistingShipmentID = "SHP001"
	MissingShipmentID  = "SHP404"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the admin portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleLegacyShipment is the flattened booking the portal submits.
func ExampleLegacyShipment() map[string]any {
	return map[string]any{
		"senderName":    "Asha Rao",
		"senderPhone":   "9000000001",
		"receiverName":  "Vikram Shah",
		"receiverPhone": "9000000002",
		"start":         "Pune",
		"end":           "Mumbai",
		"parcelWeight":  2.5,
		"packageType":   "Document",
		"cost":          150,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
