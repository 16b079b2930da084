package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shopkart/internal/database"
	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the embedded
// migrations, and opens a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Apply the same migrations the server runs at startup
	if err := database.Migrate(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedUser inserts a test user and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, mobile) VALUES ($1, $2, $3, $4, $5)`,
		id, "Test", "User", fmt.Sprintf("user-%s@example.com", id), "9999999999",
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return id
}

// SeedProduct inserts a test product and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, price, discountedPrice int64) *model.Product {
	t.Helper()

	ctx := context.Background()
	product := &model.Product{
		ID:              uuid.New(),
		Title:           "Test Necklace",
		Brand:           "Test Brand",
		Price:           price,
		DiscountedPrice: discountedPrice,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO products (id, title, brand, price, discounted_price) VALUES ($1, $2, $3, $4, $5)`,
		product.ID, product.Title, product.Brand, product.Price, product.DiscountedPrice,
	)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	return product
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "cart_items", "carts", "products", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
