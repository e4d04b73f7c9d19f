package account

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/authservice/pkg/mongo"
)

// UsersCollection is the collection MongoStorage reads and writes.
const UsersCollection = "users"

// MongoStorage stores users in a MongoDB collection.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage returns a MongoStorage over db's users collection.
// Call EnsureIndexes once at startup.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique email index and the token lookup indexes.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verification.token", Value: 1}},
			Options: options.Index().SetName("verification_token").SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "passwordReset.token", Value: 1}},
			Options: options.Index().SetName("password_reset_token").SetSparse(true),
		},
	})
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

func (s *MongoStorage) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStorage) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *MongoStorage) FindByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error) {
	return s.findOne(ctx, bson.D{
		{Key: "verification.token", Value: token},
		{Key: "verification.expiresAt", Value: bson.D{{Key: "$gte", Value: now}}},
	})
}

func (s *MongoStorage) FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error) {
	return s.findOne(ctx, bson.D{
		{Key: "passwordReset.token", Value: token},
		{Key: "passwordReset.expiresAt", Value: bson.D{{Key: "$gte", Value: now}}},
	})
}

func (s *MongoStorage) findOne(ctx context.Context, filter bson.D) (*User, error) {
	var u User
	if err := s.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if mongox.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return &u, nil
}

func (s *MongoStorage) Insert(ctx context.Context, u *User) error {
	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongox.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

// Update rewrites the mutable fields in one $set/$unset, filtered on id and
// version. Pending tokens that are nil are removed from the document.
func (s *MongoStorage) Update(ctx context.Context, u *User) error {
	set := bson.D{
		{Key: "name", Value: u.Name},
		{Key: "email", Value: u.Email},
		{Key: "password", Value: u.PasswordHash},
		{Key: "isVerified", Value: u.IsVerified},
		{Key: "lastLogin", Value: u.LastLogin},
		{Key: "updatedAt", Value: u.UpdatedAt},
		{Key: "version", Value: u.Version + 1},
	}
	unset := bson.D{}
	if u.Verification != nil {
		set = append(set, bson.E{Key: "verification", Value: u.Verification})
	} else {
		unset = append(unset, bson.E{Key: "verification", Value: ""})
	}
	if u.PasswordReset != nil {
		set = append(set, bson.E{Key: "passwordReset", Value: u.PasswordReset})
	} else {
		unset = append(unset, bson.E{Key: "passwordReset", Value: ""})
	}

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}

	res, err := s.coll.UpdateOne(ctx, bson.D{
		{Key: "_id", Value: u.ID},
		{Key: "version", Value: u.Version},
	}, update)
	if err != nil {
		if mongox.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStorageFailed, err)
	}
	if res.MatchedCount == 0 {
		return s.missOrStale(ctx, u.ID)
	}

	u.Version++
	return nil
}

func (s *MongoStorage) missOrStale(ctx context.Context, id string) error {
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return ErrStaleUser
}
