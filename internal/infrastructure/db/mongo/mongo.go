package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const appName = "store-rating"

// Config holds the connection settings read from MONGO_* variables.
type Config struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
}

// Repositories bundles the three collections' repositories.
type Repositories struct {
	Users   *UserRepository
	Stores  *StoreRepository
	Ratings *RatingRepository
}

func clientOptions(cfg Config) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	return opts
}

// Connect dials MongoDB, pings it, builds the repositories and makes sure
// their indexes exist. Every step shares cfg.Timeout.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *Repositories, error) {
	if cfg.Timeout <= 0 {
		return nil, nil, fmt.Errorf("mongo: timeout must be positive")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	repos := &Repositories{
		Users:   NewUserRepository(db),
		Stores:  NewStoreRepository(db),
		Ratings: NewRatingRepository(db),
	}
	if err := repos.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, repos, nil
}

// EnsureIndexes creates the unique and lookup indexes of every collection.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for _, c := range []struct {
		name   string
		ensure func(context.Context) error
	}{
		{"users", r.Users.EnsureIndexes},
		{"stores", r.Stores.EnsureIndexes},
		{"ratings", r.Ratings.EnsureIndexes},
	} {
		if err := c.ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", c.name, err)
		}
	}
	return nil
}
