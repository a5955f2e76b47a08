package relational

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/dbtour/contrib/testenv"
	"github.com/surrealdb/dbtour/pkg/report"
	"gorm.io/gorm/schema"
)

func parse(t *testing.T, model any) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func TestSchemaTables(t *testing.T) {
	assert.Equal(t, "users", parse(t, &User{}).Table)
	assert.Equal(t, "orders", parse(t, &Order{}).Table)
	assert.Equal(t, "products", parse(t, &Product{}).Table)
	assert.Equal(t, "order_items", parse(t, &OrderItem{}).Table)
}

func TestSchemaColumns(t *testing.T) {
	users := parse(t, &User{})
	email := users.LookUpField("email")
	require.NotNil(t, email)
	assert.True(t, email.NotNull)
	assert.Equal(t, schema.DataType("varchar(255)"), email.DataType)

	orders := parse(t, &Order{})
	assert.Equal(t, schema.DataType("decimal(10,2)"), orders.LookUpField("total_amount").DataType)
	assert.Equal(t, schema.DataType("varchar(20)"), orders.LookUpField("status").DataType)

	items := parse(t, &OrderItem{})
	assert.ElementsMatch(t, []string{"order_id", "product_id"}, items.PrimaryFieldDBNames)
	assert.Equal(t, schema.DataType("decimal(10,2)"), items.LookUpField("price_at_time").DataType)
}

func TestCreatedAtIsTimestampWithoutZone(t *testing.T) {
	for _, model := range []any{&User{}, &Order{}} {
		created := parse(t, model).LookUpField("created_at")
		require.NotNil(t, created)
		assert.Equal(t, schema.DataType("timestamp"), created.DataType)
		assert.True(t, created.HasDefaultValue)
		assert.Equal(t, "CURRENT_TIMESTAMP", created.DefaultValue)
	}
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["Laptop","Mouse"]`)))
	assert.Equal(t, StringList{"Laptop", "Mouse"}, l)

	require.NoError(t, l.Scan(`[]`))
	assert.Empty(t, l)

	require.NoError(t, l.Scan(nil))
	assert.NotNil(t, l)

	assert.Error(t, l.Scan(42))
}

func TestStringListValue(t *testing.T) {
	v, err := StringList{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestGormWriter(t *testing.T) {
	var buf bytes.Buffer
	w := gormWriter{log: zerolog.New(&buf)}

	w.Printf("slow sql >= %v", "200ms")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "slow sql >= 200ms")
}

func TestSampleOrdersReferenceKnownProducts(t *testing.T) {
	known := map[string]bool{}
	for _, p := range sampleProducts {
		known[p.Name] = true
	}
	for _, c := range sampleCustomers {
		for _, order := range c.orders {
			require.NotEmpty(t, order)
			for _, line := range order {
				assert.True(t, known[line.product], "%s orders unknown product %s", c.email, line.product)
				assert.Positive(t, line.quantity)
			}
		}
	}
}

func TestRunStepsIntegration(t *testing.T) {
	cfg := testenv.Config(t)
	log := testenv.Logger(t)
	ctx := context.Background()

	store, err := Open(cfg.Postgres.DSN, log)
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	require.NoError(t, RunSteps(ctx, store, report.New(&out), log))
	assert.Contains(t, out.String(), "Deleted rows: 1")

	user, err := store.FindUserByEmail(ctx, demoEmail)
	require.NoError(t, err)
	assert.Nil(t, user)

	customers, err := store.TopCustomers(ctx, topLimit)
	require.NoError(t, err)
	require.NotEmpty(t, customers)
	for i := 1; i < len(customers); i++ {
		assert.GreaterOrEqual(t, customers[i-1].TotalSpent, customers[i].TotalSpent)
	}
	for _, c := range customers {
		assert.Positive(t, c.TotalOrders)
	}
}
