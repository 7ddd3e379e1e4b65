package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"leadflow/internal/models"

	"github.com/fsnotify/fsnotify"
)

// ProductService serves the product catalog loaded from a JSONL file.
// A missing file is not fatal: it yields an empty catalog and a logged
// warning. The file is watched and hot-reloaded on change.
type ProductService struct {
	path string

	mu       sync.RWMutex
	products []models.Product

	watcher *fsnotify.Watcher
}

// NewProductService loads the catalog and starts the file watcher.
func NewProductService(path string) *ProductService {
	s := &ProductService{path: path}
	s.Reload()
	s.watchFile()
	return s
}

// Reload re-reads the catalog from disk. Malformed lines are skipped.
func (s *ProductService) Reload() {
	file, err := os.Open(s.path)
	if err != nil {
		log.Printf("⚠️ [PRODUCTS] File %s not found: %v (catalog empty)", s.path, err)
		s.mu.Lock()
		s.products = nil
		s.mu.Unlock()
		return
	}
	defer file.Close()

	var products []models.Product
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var product models.Product
		if err := json.Unmarshal([]byte(line), &product); err != nil {
			log.Printf("⚠️ [PRODUCTS] Skipping malformed catalog line: %v", err)
			continue
		}
		products = append(products, product)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("❌ [PRODUCTS] Failed to read catalog: %v", err)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	log.Printf("✅ [PRODUCTS] Loaded %d products from %s", len(products), s.path)
}

// Count returns the number of loaded products.
func (s *ProductService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Search scores products by token overlap: every query token longer
// than 2 characters that appears in the product text adds one point.
// Results come back sorted by descending score, ties in catalog order,
// truncated to maxResults.
func (s *ProductService) Search(query string, maxResults int) []models.ScoredProduct {
	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()

	if len(products) == 0 {
		return nil
	}
	if maxResults <= 0 {
		maxResults = 3
	}

	tokens := strings.Fields(strings.ToLower(query))

	var scored []models.ScoredProduct
	for _, product := range products {
		text := strings.ToLower(product.Text)
		score := 0
		for _, token := range tokens {
			if len(token) > 2 && strings.Contains(text, token) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, models.ScoredProduct{
				Product: product,
				Score:   score,
				Name:    product.Metadata.ProductName,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// FormatRecommendations renders search results as the product
// recommendation text handed to the retail responder.
func (s *ProductService) FormatRecommendations(query string, results []models.ScoredProduct) string {
	if len(results) == 0 {
		return fmt.Sprintf("No products found for symptoms: %s. Please describe your symptoms differently or contact customer service.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the symptoms '%s', here are %d recommended product(s):\n\n", query, len(results))
	for i, result := range results {
		name := result.Name
		if name == "" {
			name = "Unknown Product"
		}
		price := result.Product.Price
		if price == "" {
			price = "Price not available"
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, name)
		fmt.Fprintf(&b, "   - Price: %s\n", price)
		fmt.Fprintf(&b, "   - Indications: %s\n", result.Product.Text)
		if result.Product.Metadata.ImagePath != "" {
			fmt.Fprintf(&b, "   - Image: %s\n", result.Product.Metadata.ImagePath)
		}
		fmt.Fprintf(&b, "   - Match Score: %d\n\n", result.Score)
	}
	return b.String()
}

// watchFile hot-reloads the catalog when the file changes. Watching
// the parent directory is more reliable than watching the file itself
// (editors replace files on save).
func (s *ProductService) watchFile() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️ [PRODUCTS] Failed to create file watcher: %v", err)
		return
	}

	absPath, err := filepath.Abs(s.path)
	if err != nil {
		log.Printf("⚠️ [PRODUCTS] Failed to resolve %s: %v", s.path, err)
		watcher.Close()
		return
	}

	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)
	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️ [PRODUCTS] Failed to watch %s: %v", dir, err)
		watcher.Close()
		return
	}
	s.watcher = watcher

	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				// Debounce: editors fire several events per save
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					log.Printf("🔄 [PRODUCTS] Catalog file changed, reloading...")
					s.Reload()
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ [PRODUCTS] Watcher error: %v", err)
			}
		}
	}()
}

// Close stops the catalog file watcher.
func (s *ProductService) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}
