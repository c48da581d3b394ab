package model

// CartEntry is an active (user, product) row of the `cart` table.
type CartEntry struct {
	UserID    uint64 `db:"user_id" json:"user_id"`
	ProductID uint64 `db:"product_id" json:"product_id"`
}

// CartItem is a cart entry joined to its active product.
type CartItem struct {
	ProductID   uint64  `db:"product_id" json:"product_id"`
	Name        string  `db:"product_name" json:"product_name"`
	Description string  `db:"product_description" json:"product_description"`
	Price       float64 `db:"price" json:"price"`
}
