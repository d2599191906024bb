package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"greenshop-server/internal/interfaces"
	"greenshop-server/internal/schemas"
)

// Cache holds the full product catalog in memory. Queries run against the
// current snapshot; a background refresh replaces the snapshot wholesale.
// Every refresh is tagged with a monotonically increasing sequence number
// when the fetch starts, and a fetch that finishes after a newer one has
// already been applied is discarded instead of overwriting fresher data.
type Cache struct {
	pool interfaces.PgxPoolIface

	sequence atomic.Uint64

	mu             sync.RWMutex
	products       []schemas.Product
	version        uint64
	featuredOffset int
}

func NewCache(pool interfaces.PgxPoolIface) *Cache {
	return &Cache{pool: pool}
}

// Refresh reloads the catalog from the product table. Safe to call
// concurrently; stale results lose against newer ones.
func (c *Cache) Refresh(ctx context.Context) error {
	seq := c.sequence.Add(1)

	products, err := c.fetchAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.version {
		log.Debug("Discarding stale catalog snapshot")
		return nil
	}
	c.products = products
	c.version = seq
	return nil
}

func (c *Cache) fetchAll(ctx context.Context) ([]schemas.Product, error) {
	queryString := "SELECT product_id, name, price, old_price, image, is_new, discount_percent, rating, description, category, color, stock FROM greenshop.products ORDER BY product_id"
	rows, err := c.pool.Query(ctx, queryString)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]schemas.Product, 0)
	for rows.Next() {
		product := schemas.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.OldPrice, &product.Image,
			&product.IsNew, &product.DiscountPercent, &product.Rating, &product.Description,
			&product.Category, &product.Color, &product.Stock); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// Products returns the current snapshot. Callers must treat it as read-only.
func (c *Cache) Products() []schemas.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products
}

// Get returns the product with the given id from the current snapshot.
func (c *Cache) Get(id int64) (schemas.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return schemas.Product{}, false
}

// Featured returns a window of n products starting at the rotating offset,
// wrapping around the catalog.
func (c *Cache) Featured(n int) []schemas.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.products) == 0 || n < 1 {
		return []schemas.Product{}
	}
	if n > len(c.products) {
		n = len(c.products)
	}

	featured := make([]schemas.Product, 0, n)
	for i := 0; i < n; i++ {
		featured = append(featured, c.products[(c.featuredOffset+i)%len(c.products)])
	}
	return featured
}

// Rotate advances the featured window by one product.
func (c *Cache) Rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) > 0 {
		c.featuredOffset = (c.featuredOffset + 1) % len(c.products)
	}
}

// StartBackground runs the periodic refresh and featured rotation until the
// context is canceled.
func (c *Cache) StartBackground(ctx context.Context, refreshEvery, rotateEvery time.Duration) {
	go func() {
		refreshTicker := time.NewTicker(refreshEvery)
		rotateTicker := time.NewTicker(rotateEvery)
		defer refreshTicker.Stop()
		defer rotateTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-refreshTicker.C:
				if err := c.Refresh(ctx); err != nil {
					log.Warn("Catalog refresh failed: ", err)
				}
			case <-rotateTicker.C:
				c.Rotate()
			}
		}
	}()
}
