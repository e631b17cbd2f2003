package saves

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// DefaultMongoDatabase is the database used when none is configured.
const DefaultMongoDatabase = "wikilist"

const (
	savesCollection   = "saves"
	backupsCollection = "save_backups"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI      string
	Database string
	Options
}

type saveDoc struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type backupDoc struct {
	ID        string    `bson:"_id"`
	SaveID    string    `bson:"save_id"`
	Name      string    `bson:"name"`
	Data      []byte    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoStore keeps saves as documents {_id, title, data, updated_at} where
// data is the saved JSON form of the tree. Backups live in a sibling
// collection keyed by save ID.
type MongoStore struct {
	client  *mongo.Client
	saves   *mongo.Collection
	backups *mongo.Collection
	opts    Options
	now     func() time.Time
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, wlerrors.New(wlerrors.ErrCodeInvalidInput, "mongo uri is empty")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, wlerrors.Wrap(wlerrors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, wlerrors.Wrap(wlerrors.ErrCodeNetwork, err, "ping mongo")
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:  client,
		saves:   db.Collection(savesCollection),
		backups: db.Collection(backupsCollection),
		opts:    cfg.Options,
		now:     time.Now,
	}
	_, err = s.backups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "save_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create backup index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.saves.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var docs []saveDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	out := make([]Info, len(docs))
	for i, d := range docs {
		out[i] = d.info()
	}
	return out, nil
}

func (d saveDoc) info() Info {
	return Info{ID: d.ID, Title: d.Title, UpdatedAt: d.UpdatedAt, Size: int64(len(d.Data))}
}

func (s *MongoStore) find(ctx context.Context, id string) (*saveDoc, error) {
	var doc saveDoc
	err := s.saves.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	return &doc, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*tree.Tree, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return wlio.Decode(doc.Data)
}

func (s *MongoStore) Put(ctx context.Context, id string, t *tree.Tree) (Info, error) {
	if err := ValidateID(id); err != nil {
		return Info{}, err
	}
	data, err := wlio.Encode(t)
	if err != nil {
		return Info{}, fmt.Errorf("encode save: %w", err)
	}

	if !s.opts.DisableBackups {
		prev, err := s.find(ctx, id)
		switch {
		case err == nil:
			if err := s.backup(ctx, id, prev.Data); err != nil {
				return Info{}, err
			}
		case !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound):
			return Info{}, err
		}
	}

	doc := saveDoc{ID: id, Title: t.Title(), Data: data, UpdatedAt: s.now().UTC()}
	_, err = s.saves.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return Info{}, fmt.Errorf("write save: %w", err)
	}
	return doc.info(), nil
}

func (s *MongoStore) backupDocs(ctx context.Context, id string, withData bool) ([]backupDoc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if !withData {
		opts.SetProjection(bson.M{"data": 0})
	}
	cur, err := s.backups.Find(ctx, bson.M{"save_id": id}, opts)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	var docs []backupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return docs, nil
}

func (s *MongoStore) backup(ctx context.Context, id string, data []byte) error {
	var newest backupDoc
	err := s.backups.FindOne(ctx, bson.M{"save_id": id},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&newest)
	switch {
	case err == nil:
		if bytes.Equal(newest.Data, data) {
			return nil
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("read backup: %w", err)
	}

	at := s.now().UTC()
	name := backupName(at)
	doc := backupDoc{ID: id + "/" + name, SaveID: id, Name: name, Data: data, CreatedAt: at}
	if _, err := s.backups.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	docs, err := s.backupDocs(ctx, id, false)
	if err != nil {
		return err
	}
	if len(docs) <= s.opts.maxBackups() {
		return nil
	}
	var stale []string
	for _, d := range docs[s.opts.maxBackups():] {
		stale = append(stale, d.ID)
	}
	if _, err := s.backups.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": stale}}); err != nil {
		return fmt.Errorf("remove backups: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	res, err := s.saves.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("remove save: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	if _, err := s.backups.DeleteMany(ctx, bson.M{"save_id": id}); err != nil {
		return fmt.Errorf("remove backups: %w", err)
	}
	return nil
}

func (s *MongoStore) Backups(ctx context.Context, id string) ([]Backup, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	docs, err := s.backupDocs(ctx, id, true)
	if err != nil {
		return nil, err
	}
	out := make([]Backup, len(docs))
	for i, d := range docs {
		out[i] = Backup{Name: d.Name, CreatedAt: d.CreatedAt, Size: int64(len(d.Data))}
	}
	return out, nil
}

func (s *MongoStore) Restore(ctx context.Context, id, backup string) (*tree.Tree, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var doc backupDoc
	err := s.backups.FindOne(ctx, bson.M{"_id": id + "/" + backup}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id + "/" + backup)
	}
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	t, err := wlio.Decode(doc.Data)
	if err != nil {
		return nil, err
	}
	if _, err := s.Put(ctx, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
