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
	ProviderName = "backoffice-api"
	ConsumerName = "storefront"

	StateCatalogBaseline = "catalog baseline"
	StateProductExists   = "product with id 1 exists with 5 units in stock"
)

// Every provider state starts from a fresh store seeded with these users, so
// identifiers are stable across verifications.
const (
	AdminUserID    int64 = 1
	CustomerUserID int64 = 2

	ExistingProductID int64 = 1
	MissingProductID  int64 = 404

	ExistingProductStock = 5
)

const (
	exampleProductName = "Pact Pearl Necklace"
	exampleCostPrice   = "50.00"
	exampleListPrice   = "99.90"
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

// PactFile returns the canonical pact file path for the storefront consumer.
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

// ExampleProductPayload provides stable test data for product interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"name":          exampleProductName,
		"costPrice":     exampleCostPrice,
		"sellingPrice":  exampleListPrice,
		"stockQuantity": ExistingProductStock,
	}
}

// ExampleCheckoutPayload buys quantity units of the seeded product.
func ExampleCheckoutPayload(quantity int) map[string]any {
	return map[string]any{
		"items": []map[string]any{{"productId": ExistingProductID, "quantity": quantity}},
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
