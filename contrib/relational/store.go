package relational

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store runs the tour's statements against PostgreSQL.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn. GORM pings the server while opening.
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newGormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing *gorm.DB.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables, keys and indexes that do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&User{},
		&Product{},
		&Order{},
		&OrderItem{},
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateUser inserts a user and returns the stored row.
func (s *Store) CreateUser(ctx context.Context, email, name string) (*User, error) {
	user := &User{Email: email, Name: name}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindUserByEmail returns nil when no user has the address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// RenameUser updates the name and returns the updated row, or nil when no
// user has the address.
func (s *Store) RenameUser(ctx context.Context, email, name string) (*User, error) {
	var user User
	res := s.db.WithContext(ctx).Model(&user).
		Clauses(clause.Returning{}).
		Where("email = ?", email).
		Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}

// DeleteUserByEmail returns the number of deleted rows.
func (s *Store) DeleteUserByEmail(ctx context.Context, email string) (int64, error) {
	res := s.db.WithContext(ctx).Where("email = ?", email).Delete(&User{})
	return res.RowsAffected, res.Error
}

// SeedOrders inserts sample customers, products and orders in a single
// transaction when the orders table is empty. It reports whether anything
// was written.
func (s *Store) SeedOrders(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Order{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := map[string]*Product{}
		for _, p := range sampleProducts {
			product := p
			if err := tx.Where(Product{Name: p.Name}).FirstOrCreate(&product).Error; err != nil {
				return err
			}
			products[p.Name] = &product
		}

		for _, c := range sampleCustomers {
			user := User{Email: c.email, Name: c.name}
			if err := tx.Where(User{Email: c.email}).FirstOrCreate(&user).Error; err != nil {
				return err
			}
			for _, lines := range c.orders {
				if err := createOrder(tx, user.ID, products, lines); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed orders: %w", err)
	}
	return true, nil
}

type orderLine struct {
	product  string
	quantity int
}

func createOrder(tx *gorm.DB, userID uint, products map[string]*Product, lines []orderLine) error {
	order := Order{UserID: userID, Status: "completed"}
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		p, ok := products[l.product]
		if !ok {
			return fmt.Errorf("unknown product %q", l.product)
		}
		order.TotalAmount += p.Price * float64(l.quantity)
		items = append(items, OrderItem{ProductID: p.ID, Quantity: l.quantity, PriceAtTime: p.Price})
	}
	if err := tx.Create(&order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	return tx.Create(&items).Error
}

var sampleProducts = []Product{
	{Name: "Laptop", Price: 999.99, Stock: 10},
	{Name: "Mouse", Price: 29.99, Stock: 100},
	{Name: "Keyboard", Price: 79.99, Stock: 50},
	{Name: "Monitor", Price: 249.50, Stock: 20},
}

var sampleCustomers = []struct {
	email  string
	name   string
	orders [][]orderLine
}{
	{"alice@example.com", "Alice Johnson", [][]orderLine{
		{{"Laptop", 1}, {"Mouse", 1}},
		{{"Monitor", 2}},
	}},
	{"bob@example.com", "Bob Brown", [][]orderLine{
		{{"Keyboard", 1}, {"Mouse", 2}},
	}},
	{"carol@example.com", "Carol White", nil},
}

// topCustomersQuery keeps the product list in a correlated subquery so the
// order totals are not multiplied by the number of order lines.
const topCustomersQuery = `
SELECT
	u.name,
	COUNT(o.id) AS total_orders,
	SUM(o.total_amount) AS total_spent,
	COALESCE((
		SELECT json_agg(DISTINCT p.name)
		FROM orders uo
		JOIN order_items oi ON oi.order_id = uo.id
		JOIN products p ON p.id = oi.product_id
		WHERE uo.user_id = u.id
	), '[]') AS purchased_products
FROM users u
JOIN orders o ON o.user_id = u.id
GROUP BY u.id, u.name
HAVING COUNT(o.id) > 0
ORDER BY total_spent DESC
LIMIT ?`

// TopCustomers lists customers with at least one order by total spent.
func (s *Store) TopCustomers(ctx context.Context, limit int) ([]CustomerSummary, error) {
	var rows []CustomerSummary
	err := s.db.WithContext(ctx).Raw(topCustomersQuery, limit).Scan(&rows).Error
	return rows, err
}
