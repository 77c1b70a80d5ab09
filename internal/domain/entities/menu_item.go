package entities

// MenuItemType distinguishes sellable products from additions.
//
// An addition is only meaningful inside the modifier set of its parent
// product (ParentCode points at the product's PDV code).

type MenuItemType string

const (
	MenuItemTypeProduct  MenuItemType = "product"
	MenuItemTypeAddition MenuItemType = "addition"
)

// MenuItem is one row of the tenant's searchable menu index.
//
// Domain notes:
//   - The catalog is owned by an external sync job; the agent only reads it.
//   - Fingerprint is a pure function of Name (lowercase, accents stripped,
//     non-alphanumerics removed) and is precomputed by the sync.

type MenuItem struct {
	PDVCode     string       `json:"pdv_code"`
	ParentCode  string       `json:"parent_code,omitempty"`
	Name        string       `json:"name"`
	Category    string       `json:"category,omitempty"`
	Price       float64      `json:"price"`
	Type        MenuItemType `json:"item_type"`
	Fingerprint string       `json:"fingerprint"`
	Available   bool         `json:"available"`
}

// IsProduct reports whether the entry can anchor a cart item.
func (m MenuItem) IsProduct() bool { return m.Type == MenuItemTypeProduct }

// IsAddition reports whether the entry is a modifier of another item.
func (m MenuItem) IsAddition() bool { return m.Type == MenuItemTypeAddition }
