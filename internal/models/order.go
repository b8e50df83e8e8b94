package models

// Order status values. Transitions are not guarded: cancel and finish
// endpoints overwrite the current status unconditionally.
const (
	StatusPending  = "PENDING"
	StatusCanceled = "CANCELED"
	StatusFinished = "FINISHED"
)

// Order is a set of items owned by exactly one user. Price is derived:
// it is recomputed from the items after every item mutation and must
// never be trusted independently once the order has items.
type Order struct {
	ID     uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID uint        `json:"user_id" gorm:"index;not null"`
	Status string      `json:"status" gorm:"type:varchar(20);not null"`
	Price  float64     `json:"price" gorm:"not null"`
	Items  []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
}

// Total sums price*amount over the attached items.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Amount)
	}
	return total
}

// OrderItem is a line item belonging to a single order. Deleting the
// parent order cascades to its items.
type OrderItem struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint    `json:"order_id" gorm:"index;not null"`
	Name        string  `json:"name" gorm:"type:varchar(100);not null"`
	Description string  `json:"description" gorm:"type:varchar(500)"`
	Price       float64 `json:"price" gorm:"not null"`
	Amount      int     `json:"amount" gorm:"default:0"`
}
