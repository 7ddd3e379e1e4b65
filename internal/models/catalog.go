package models

// Product is one entry from the JSONL product catalog.
type Product struct {
	Text     string          `json:"text"`
	Price    string          `json:"price"`
	Metadata ProductMetadata `json:"metadata"`
}

// ProductMetadata carries the display fields for a product.
type ProductMetadata struct {
	ProductName string `json:"product_name"`
	ImagePath   string `json:"image_path"`
}

// ScoredProduct is a product with its keyword match score attached.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   int     `json:"score"`
	Name    string  `json:"name"`
}

// Order is one entry from the orders catalog.
type Order struct {
	OrderID       string `json:"order_id"`
	ProductName   string `json:"product_name"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Status        string `json:"status"`
}
