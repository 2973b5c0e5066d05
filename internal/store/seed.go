package store

import (
	"context"
	"fmt"
	"log/slog"
)

// initialCatalog is the demo catalog inserted into an empty store at startup.
// Inserting in order yields ids 1..10.
var initialCatalog = []map[string]any{
	{"name": "UltraSlim X1 Laptop", "price": 1299.99, "description": "Experience peak performance...", "category": "Computers & Tablets", "brand": "Apex"},
	{"name": "NoiseGuard Pro Headphones", "price": 349.99, "description": "Immerse yourself...", "category": "Audio", "brand": "Aura"},
	{"name": "Visionary 4K Monitor", "price": 499.99, "description": "See every detail...", "category": "Computer Accessories", "brand": "OptiMax"},
	{"name": "GamerZ Console 5", "price": 499.99, "description": "Next-gen gaming...", "category": "Video Games", "brand": "Nexus"},
	{"name": "SmartWatch Series 7", "price": 399.99, "description": "Track your fitness...", "category": "Wearable Technology", "brand": "Vital"},
	{"name": "BlueBeat Portable Speaker", "price": 129.99, "description": "Take the party anywhere...", "category": "Audio", "brand": "Roam"},
	{"name": "ProTab Air Tablet", "price": 599.99, "description": "Power and portability...", "category": "Computers & Tablets", "brand": "Forge"},
	{"name": "MechKey RGB Keyboard", "price": 149.99, "description": "Dominate the competition...", "category": "Computer Accessories", "brand": "Zenith"},
	{"name": "CineView 65\" OLED TV", "price": 1999.99, "description": "Experience true blacks...", "category": "TV & Home Theater", "brand": "Luminos"},
	{"name": "Bolt External SSD 1TB", "price": 159.99, "description": "Transfer files in seconds...", "category": "Computer Accessories", "brand": "Velocity"},
}

// Seed inserts the initial catalog when the store is empty. It is a no-op on
// a non-empty store, so restarting the service never duplicates records.
func Seed(ctx context.Context, s ProductStore, logger *slog.Logger) error {
	count, err := s.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products before seeding: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, fields := range initialCatalog {
		if _, err := s.Create(ctx, fields); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", fields["name"], err)
		}
	}
	logger.Info("Database seeded successfully", slog.Int("products", len(initialCatalog)))
	return nil
}
