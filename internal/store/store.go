package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection      = "users"
	activitiesCollection = "activities"
)

// User is an account allowed to submit extraction requests.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  int64              `bson:"user_id" json:"user_id"`
	Name    string             `bson:"name" json:"name"`
	AddedAt time.Time          `bson:"added_at" json:"added_at"`
}

// Activity records one extraction request and its outcome.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      int64              `bson:"user_id" json:"user_id"`
	Username    string             `bson:"username" json:"username"`
	URL         string             `bson:"url" json:"url"`
	Platform    string             `bson:"platform" json:"platform"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Succeeded   bool               `bson:"succeeded" json:"succeeded"`
	Detail      string             `bson:"detail,omitempty" json:"detail,omitempty"`
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
}

// Store keeps the user allow-list and the activity log in MongoDB.
type Store struct {
	client     *mongo.Client
	users      *mongo.Collection
	activities *mongo.Collection
}

// New connects to MongoDB, verifies the connection and ensures indexes.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	s := &Store{
		client:     client,
		users:      db.Collection(usersCollection),
		activities: db.Collection(activitiesCollection),
	}

	s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	s.activities.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "requested_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})

	return s, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// IsAuthorized reports whether the user is on the allow-list.
func (s *Store) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	err := s.users.FindOne(ctx, bson.M{"user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddUser puts a user on the allow-list. Adding an existing user refreshes
// the stored name and is not an error.
func (s *Store) AddUser(ctx context.Context, userID int64, name string) error {
	_, err := s.users.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         bson.M{"name": name},
			"$setOnInsert": bson.M{"user_id": userID, "added_at": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// RemoveUser drops a user from the allow-list. Removing an absent user is
// not an error.
func (s *Store) RemoveUser(ctx context.Context, userID int64) error {
	_, err := s.users.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}

// ListUsers returns the allow-list ordered by when users were added.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// LogActivity appends one request record to the activity log.
func (s *Store) LogActivity(ctx context.Context, a *Activity) error {
	if a.RequestedAt.IsZero() {
		a.RequestedAt = time.Now()
	}
	result, err := s.activities.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	a.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ListActivities returns the most recent records first. A zero userID means
// all users.
func (s *Store) ListActivities(ctx context.Context, userID int64, limit int64) ([]Activity, error) {
	query := bson.M{}
	if userID != 0 {
		query["user_id"] = userID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "requested_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.activities.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Activity
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountActivities returns totals for the stats summary.
func (s *Store) CountActivities(ctx context.Context) (total, succeeded int64, err error) {
	total, err = s.activities.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, err
	}
	succeeded, err = s.activities.CountDocuments(ctx, bson.M{"succeeded": true})
	if err != nil {
		return 0, 0, err
	}
	return total, succeeded, nil
}
