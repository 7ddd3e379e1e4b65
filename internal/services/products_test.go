package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "products.jsonl")

	lines := []string{
		`{"text": "Relieves headache and migraine pain", "price": "$12.99", "metadata": {"product_name": "Head Ease", "image_path": "img/head-ease.png"}}`,
		`{"text": "Boosts energy, fights fatigue and exhaustion", "price": "$19.99", "metadata": {"product_name": "Vital Boost"}}`,
		`{"text": "Supports restful sleep and reduces headache from tension", "price": "$15.50", "metadata": {"product_name": "Night Calm"}}`,
		`{"text": "Soothes digestive discomfort", "price": "$9.99", "metadata": {"product_name": "Gut Relief"}}`,
		`not valid json`,
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}
	return path
}

func newTestProductService(t *testing.T) *ProductService {
	t.Helper()
	// Bypass NewProductService to keep the file watcher out of tests
	s := &ProductService{path: writeTestCatalog(t)}
	s.Reload()
	return s
}

func TestProductReloadSkipsMalformedLines(t *testing.T) {
	products := newTestProductService(t)

	if products.Count() != 4 {
		t.Errorf("Expected 4 products (malformed line skipped), got %d", products.Count())
	}
}

func TestProductSearchScoresByTokenOverlap(t *testing.T) {
	products := newTestProductService(t)

	results := products.Search("headache fatigue", 3)
	if len(results) == 0 {
		t.Fatal("Expected matches for headache fatigue")
	}

	// Every result matched at least one token; scores are descending.
	for i, result := range results {
		if result.Score < 1 {
			t.Errorf("Result %d has score %d", i, result.Score)
		}
		if i > 0 && result.Score > results[i-1].Score {
			t.Errorf("Results not sorted by descending score at %d", i)
		}
	}

	names := make(map[string]bool)
	for _, result := range results {
		names[result.Name] = true
	}
	if names["Gut Relief"] {
		t.Error("Gut Relief matches no token and must not appear")
	}
}

func TestProductSearchIgnoresShortTokens(t *testing.T) {
	products := newTestProductService(t)

	// All tokens are <= 2 characters, so nothing can score.
	if results := products.Search("a an of", 3); len(results) != 0 {
		t.Errorf("Expected no results for short tokens, got %d", len(results))
	}
}

func TestProductSearchTruncatesToMax(t *testing.T) {
	products := newTestProductService(t)

	results := products.Search("headache", 1)
	if len(results) != 1 {
		t.Errorf("Expected 1 result with max=1, got %d", len(results))
	}
}

func TestProductSearchMissingFile(t *testing.T) {
	s := &ProductService{path: filepath.Join(t.TempDir(), "missing.jsonl")}
	s.Reload()

	if s.Count() != 0 {
		t.Errorf("Expected empty catalog for missing file, got %d", s.Count())
	}
	if results := s.Search("headache", 3); results != nil {
		t.Errorf("Expected nil results on empty catalog, got %v", results)
	}
}

func TestFormatRecommendations(t *testing.T) {
	products := newTestProductService(t)

	results := products.Search("headache", 3)
	text := products.FormatRecommendations("headache", results)

	if !strings.Contains(text, "Head Ease") {
		t.Errorf("Recommendations missing product name:\n%s", text)
	}
	if !strings.Contains(text, "$12.99") {
		t.Errorf("Recommendations missing price:\n%s", text)
	}
}

func TestFormatRecommendationsEmpty(t *testing.T) {
	products := newTestProductService(t)

	text := products.FormatRecommendations("xyzzy", nil)
	if !strings.Contains(text, "No products found") {
		t.Errorf("Expected no-products message, got:\n%s", text)
	}
}
