package models

// Stock counts bottles by condition.
type Stock struct {
	Full      int `json:"full"`
	Empty     int `json:"empty"`
	Defective int `json:"defective"`
}

// Product represents a sellable item in the inventory, e.g. a 19L bottle.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock Stock   `json:"stock"`
}
