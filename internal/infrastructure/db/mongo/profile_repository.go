package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spit-library/auth-service/internal/core/domain"
)

const (
	usersCollection  = "users"
	loginsCollection = "login_events"
)

// ProfileRepository persists user profiles in the users collection, keyed
// by the provider-issued uid, and login events in an append-only
// login_events collection.
type ProfileRepository struct {
	users  *mongo.Collection
	logins *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		users:  db.Collection(usersCollection),
		logins: db.Collection(loginsCollection),
	}
}

type profileDoc struct {
	UID         string    `bson:"_id"`
	Email       string    `bson:"email,omitempty"`
	StudentID   string    `bson:"student_id,omitempty"`
	Year        string    `bson:"year,omitempty"`
	CreatedAt   time.Time `bson:"created_at,omitempty"`
	LastLoginAt time.Time `bson:"last_login_at,omitempty"`
}

type loginEventDoc struct {
	ID   string    `bson:"_id"`
	UID  string    `bson:"uid"`
	Time time.Time `bson:"time"`
}

func (r *ProfileRepository) Read(ctx context.Context, uid string) (*domain.UserProfileRecord, error) {
	var doc profileDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	return &domain.UserProfileRecord{
		UID:         doc.UID,
		Email:       doc.Email,
		StudentID:   doc.StudentID,
		Year:        doc.Year,
		CreatedAt:   doc.CreatedAt,
		LastLoginAt: doc.LastLoginAt,
	}, nil
}

// Merge upserts the registration fields into the profile. $set touches only
// the given fields so anything else on the stored document survives, and
// $currentDate makes last_login_at a server-assigned timestamp.
func (r *ProfileRepository) Merge(ctx context.Context, uid string, fields domain.ProfileFields) error {
	update := bson.M{
		"$set": bson.M{
			"email":      fields.Email,
			"student_id": fields.StudentID,
			"year":       fields.Year,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
		},
		"$currentDate": bson.M{
			"last_login_at": true,
		},
	}

	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": uid}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("merge profile: %w", err)
	}
	return nil
}

// Create writes the minimal profile for a first federated sign-in. Callers
// only invoke it after a miss on Read; if another writer won the race the
// duplicate insert is reported as-is (last-writer-wins is acceptable here).
func (r *ProfileRepository) Create(ctx context.Context, uid, email string) error {
	doc := profileDoc{
		UID:       uid,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// AppendLoginEvent adds one login-history entry. Entries carry their own
// uuid so the collection stays strictly append-only.
func (r *ProfileRepository) AppendLoginEvent(ctx context.Context, uid string) error {
	doc := loginEventDoc{
		ID:   uuid.NewString(),
		UID:  uid,
		Time: time.Now().UTC(),
	}
	if _, err := r.logins.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append login event: %w", err)
	}
	return nil
}
