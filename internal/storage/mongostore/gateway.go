package mongostore

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectionError reports that the store could not be reached or refused
// the credentials.
type ConnectionError struct{ Err error }

func (e *ConnectionError) Error() string { return "mongo connection failed: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

type dialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Gateway owns the process-wide client. The first successful Connect dials
// and pings; later calls return the cached database handle.
type Gateway struct {
	uri  string
	name string
	dial dialFunc

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewGateway(uri, dbName string) *Gateway {
	return &Gateway{uri: uri, name: dbName, dial: dialAndPing}
}

func (g *Gateway) Connect(ctx context.Context) (*mongo.Database, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db != nil {
		return g.db, nil
	}
	c, err := g.dial(ctx, g.uri)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	g.client = c
	g.db = c.Database(g.name)
	log.Info().Str("db", g.name).Msg("mongo connected")
	return g.db, nil
}

func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Disconnect(ctx)
	g.client, g.db = nil, nil
	return err
}

func dialAndPing(ctx context.Context, uri string) (*mongo.Client, error) {
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(ctx)
		return nil, err
	}
	return c, nil
}
