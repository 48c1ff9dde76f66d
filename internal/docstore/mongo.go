package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo maps collections one-to-one onto MongoDB collections, using the document id
// as _id. Documents round-trip through JSON so the same struct tags serve both
// backends.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("docstore: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docstore: ping mongo: %w", err)
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

func (m *Mongo) coll(name string) (*mongo.Collection, error) {
	if err := checkColl(name); err != nil {
		return nil, err
	}
	return m.db.Collection(name), nil
}

func (m *Mongo) Get(ctx context.Context, coll, id string, out any) error {
	c, err := m.coll(coll)
	if err != nil {
		return err
	}
	raw, err := c.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return decodeRaw(raw, out)
}

func (m *Mongo) Create(ctx context.Context, coll, id string, doc any) error {
	c, err := m.coll(coll)
	if err != nil {
		return err
	}
	d, err := toBSON(id, doc)
	if err != nil {
		return err
	}
	_, err = c.InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	return err
}

func (m *Mongo) Put(ctx context.Context, coll, id string, doc any) error {
	c, err := m.coll(coll)
	if err != nil {
		return err
	}
	d, err := toBSON(id, doc)
	if err != nil {
		return err
	}
	_, err = c.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, d, options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) Delete(ctx context.Context, coll, id string) error {
	c, err := m.coll(coll)
	if err != nil {
		return err
	}
	res, err := c.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Find(ctx context.Context, coll string, out any, conds ...Cond) error {
	c, err := m.coll(coll)
	if err != nil {
		return err
	}
	filter, err := mongoFilter(conds)
	if err != nil {
		return err
	}
	cur, err := c.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var docs []string
	for cur.Next(ctx) {
		b, err := bson.MarshalExtJSON(cur.Current, false, false)
		if err != nil {
			return err
		}
		docs = append(docs, string(b))
	}
	if err := cur.Err(); err != nil {
		return err
	}
	return json.Unmarshal([]byte("["+strings.Join(docs, ",")+"]"), out)
}

func (m *Mongo) Count(ctx context.Context, coll string, conds ...Cond) (int, error) {
	c, err := m.coll(coll)
	if err != nil {
		return 0, err
	}
	filter, err := mongoFilter(conds)
	if err != nil {
		return 0, err
	}
	n, err := c.CountDocuments(ctx, filter)
	return int(n), err
}

func (m *Mongo) Close(ctx context.Context) error { return m.client.Disconnect(ctx) }

// A scalar equality filter on an array field matches any element, so OpEq and
// OpContains translate to the same query.
func mongoFilter(conds []Cond) (bson.D, error) {
	if err := checkConds(conds); err != nil {
		return nil, err
	}
	filter := bson.D{}
	for _, c := range conds {
		filter = append(filter, bson.E{Key: c.Field, Value: c.Value})
	}
	return filter, nil
}

func toBSON(id string, doc any) (bson.D, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var d bson.D
	if err := bson.UnmarshalExtJSON(b, false, &d); err != nil {
		return nil, err
	}
	for i := range d {
		if d[i].Key == "_id" {
			d[i].Value = id
			return d, nil
		}
	}
	return append(bson.D{{Key: "_id", Value: id}}, d...), nil
}

func decodeRaw(raw bson.Raw, out any) error {
	b, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
