package relational

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	User        *User     `json:"-"`
	TotalAmount float64   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type Product struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"type:varchar(255);not null" json:"name"`
	Price float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock int     `gorm:"not null" json:"stock"`
}

type OrderItem struct {
	OrderID     uint     `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	Order       *Order   `json:"-"`
	ProductID   uint     `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Product     *Product `json:"-"`
	Quantity    int      `gorm:"not null" json:"quantity"`
	PriceAtTime float64  `gorm:"type:decimal(10,2);not null" json:"price_at_time"`
}

// StringList reads a JSON array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// CustomerSummary is one row of the top customers report.
type CustomerSummary struct {
	Name              string     `json:"name"`
	TotalOrders       int64      `json:"total_orders"`
	TotalSpent        float64    `json:"total_spent"`
	PurchasedProducts StringList `json:"purchased_products"`
}
