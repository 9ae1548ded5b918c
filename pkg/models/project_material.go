package models

// ProjectMaterial tracks demand per (project, product, phase). The claimed
// counter moves only through approved claims and approved returns.
type ProjectMaterial struct {
	ID               int    `json:"id" db:"id"`
	ProjectID        int    `json:"project_id" db:"project_id"`
	ProductID        int    `json:"product_id" db:"product_id"`
	Phase            string `json:"phase" db:"phase"`
	RequiredQuantity int    `json:"required_quantity" db:"required_quantity"`
	ClaimedQuantity  int    `json:"claimed_quantity" db:"claimed_quantity"`
}
