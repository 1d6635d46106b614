// Package mongo implements the credential store on a MongoDB collection with
// one document per user. Membership updates use single-document atomic
// operators ($addToSet, $pull) so concurrent writers never lose updates.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

var _ store.Store = (*Store)(nil)

type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"userName"`
	Password   string             `bson:"password"`
	Favourites []string           `bson:"favourites"`
	History    []string           `bson:"history"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d *userDocument) toModel() *models.User {
	u := &models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
		Favourites:   d.Favourites,
		History:      d.History,
		CreatedAt:    d.CreatedAt,
	}
	if u.Favourites == nil {
		u.Favourites = []string{}
	}
	if u.History == nil {
		u.History = []string{}
	}
	return u
}

// Store persists users in MongoDB.
type Store struct {
	users *mongo.Collection
}

// New returns a Store on db and ensures the unique username index exists.
func New(ctx context.Context, db *mongo.Database) (*Store, error) {
	users := db.Collection(UsersCollection)
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userName", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("userName_unique"),
	})
	if err != nil {
		return nil, store.Failure("create username index", err)
	}
	return &Store{users: users}, nil
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return nil, store.ErrIncompleteUser
	}

	doc := userDocument{
		Username:   username,
		Password:   passwordHash,
		Favourites: []string{},
		History:    []string{},
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrUserExists
		}
		return nil, store.Failure("insert user", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, store.Failure("insert user", fmt.Errorf("unexpected id type %T", res.InsertedID))
	}
	doc.ID = oid
	return doc.toModel(), nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"userName": username})
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.Failure("lookup user", err)
	}
	return doc.toModel(), nil
}

// AddItem adds itemID with $addToSet. The filter only matches while the
// array has fewer than limit elements or already contains itemID, so the
// capacity check and the update are one atomic operation.
func (s *Store) AddItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string, limit int) ([]string, error) {
	if !kind.Valid() {
		return nil, store.ErrUnknownCollection
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, store.ErrUserNotFound
	}

	field := kind.String()
	admit := bson.A{bson.M{field: itemID}}
	if limit > 0 {
		admit = append(admit, bson.M{fmt.Sprintf("%s.%d", field, limit-1): bson.M{"$exists": false}})
	}
	filter := bson.M{"_id": oid, "$or": admit}
	update := bson.M{"$addToSet": bson.M{field: itemID}}

	doc, err := s.update(ctx, filter, update, field)
	if err == nil {
		return doc.toModel().Items(kind), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.Failure("add item", err)
	}

	// Nothing matched: either the user is gone or the collection is full.
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, store.Failure("count user", err)
	}
	if n == 0 {
		return nil, store.ErrUserNotFound
	}
	return nil, store.ErrCollectionFull
}

func (s *Store) RemoveItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string) ([]string, error) {
	if !kind.Valid() {
		return nil, store.ErrUnknownCollection
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, store.ErrUserNotFound
	}

	field := kind.String()
	doc, err := s.update(ctx, bson.M{"_id": oid}, bson.M{"$pull": bson.M{field: itemID}}, field)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.Failure("remove item", err)
	}
	return doc.toModel().Items(kind), nil
}

func (s *Store) update(ctx context.Context, filter, update bson.M, field string) (*userDocument, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{field: 1})

	var doc userDocument
	if err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
