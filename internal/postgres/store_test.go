//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/orderdesk/internal"
	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/repository"
	"github.com/dukerupert/orderdesk/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("orderdesk"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	require.NoError(t, internal.RunMigrations(ctx, db, "postgres", nil))

	return pool
}

func TestStore_Integration(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	store, err := NewStore(pool, IsolationReadCommitted, nil)
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	product, err := store.CreateProduct(ctx, repository.CreateProductParams{
		ID:        uuid.New(),
		Name:      "Kenya AA",
		Price:     decimal.RequireFromString("18.50"),
		Stock:     5,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	t.Run("rollback discards writes", func(t *testing.T) {
		err := store.ExecTx(ctx, func(q repository.Querier) error {
			n, err := q.DecrementProductStock(ctx, repository.DecrementProductStockParams{Quantity: 2, ID: product.ID})
			require.NoError(t, err)
			require.Equal(t, int64(1), n)
			return domain.ErrOrderNotFound
		})
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)

		got, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(5), got.Stock)
	})

	t.Run("panic releases the connection", func(t *testing.T) {
		func() {
			defer func() {
				assert.Equal(t, "boom", recover())
			}()
			_ = store.ExecTx(ctx, func(q repository.Querier) error {
				if _, err := q.DecrementProductStock(ctx, repository.DecrementProductStockParams{Quantity: 1, ID: product.ID}); err != nil {
					return err
				}
				panic("boom")
			})
		}()

		assert.Equal(t, int32(0), pool.Stat().AcquiredConns())

		got, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(5), got.Stock)
	})

	t.Run("concurrent decrements never oversell", func(t *testing.T) {
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			sold int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.ExecTx(ctx, func(q repository.Querier) error {
					n, err := q.DecrementProductStock(ctx, repository.DecrementProductStockParams{Quantity: 1, ID: product.ID})
					if err != nil {
						return err
					}
					if n == 1 {
						mu.Lock()
						sold++
						mu.Unlock()
					}
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, sold)
		assert.Equal(t, int32(0), got.Stock)
	})
	t.Run("concurrent checkouts through the order service", func(t *testing.T) {
		coffee, err := store.CreateProduct(ctx, repository.CreateProductParams{
			ID:        uuid.New(),
			Name:      "Ethiopia Guji",
			Price:     decimal.RequireFromString("10.00"),
			Stock:     5,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		svc := service.NewOrderService(store, nil, nil, nil, service.OrderServiceConfig{})

		const attempts = 2
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				customer := &domain.Principal{ID: uuid.New(), Role: domain.RoleCustomer}
				_, errs[i] = svc.CreateOrder(ctx, customer, service.CreateOrderParams{
					Cart: domain.Cart{{ProductID: coffee.ID, Quantity: 3}},
					Shipping: domain.ShippingAddress{
						FirstName: "Ada",
						LastName:  "Lovelace",
						Email:     "ada@example.com",
						Address:   "12 Analytical Row",
						City:      "London",
						Zip:       "NW1",
					},
				})
			}()
		}
		wg.Wait()

		var succeeded int
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			// The loser fails validation (400) or the conditional decrement (409).
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
		assert.Equal(t, 1, succeeded)

		got, err := store.GetProduct(ctx, coffee.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(2), got.Stock)
	})
}
