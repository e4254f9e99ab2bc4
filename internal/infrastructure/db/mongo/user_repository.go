package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

const userCollection = "users"

// UserRepository implements ports.UserRepository backed by MongoDB.
// Uniqueness of email and google_id is enforced by the collection's unique
// indexes, not by application-level locking.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

type userDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Email              string             `bson:"email"`
	PasswordHash       string             `bson:"password_hash,omitempty"`
	GoogleID           string             `bson:"google_id,omitempty"`
	FirstName          string             `bson:"first_name,omitempty"`
	LastName           string             `bson:"last_name,omitempty"`
	Gender             string             `bson:"gender,omitempty"`
	Role               string             `bson:"role,omitempty"`
	ProfilePic         string             `bson:"profile_pic,omitempty"`
	GoogleAccessToken  string             `bson:"google_access_token,omitempty"`
	GoogleRefreshToken string             `bson:"google_refresh_token,omitempty"`
	LoggedIn           bool               `bson:"logged_in"`
	Active             bool               `bson:"active"`
	LastLoginAt        int64              `bson:"last_login_at,omitempty"`
	CreatedAt          int64              `bson:"created_at"`
	UpdatedAt          int64              `bson:"updated_at"`
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		Email:              user.Email,
		PasswordHash:       user.PasswordHash,
		GoogleID:           user.GoogleID,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Gender:             user.Gender,
		Role:               user.Role,
		ProfilePic:         user.ProfilePic,
		GoogleAccessToken:  user.GoogleAccessToken,
		GoogleRefreshToken: user.GoogleRefreshToken,
		LoggedIn:           user.LoggedIn,
		Active:             user.Active,
		CreatedAt:          user.CreatedAt.Unix(),
		UpdatedAt:          user.UpdatedAt.Unix(),
	}
	if user.LastLoginAt != nil {
		doc.LastLoginAt = user.LastLoginAt.Unix()
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if patch.PasswordHash != nil {
		set["password_hash"] = *patch.PasswordHash
	}
	if patch.Gender != nil {
		set["gender"] = *patch.Gender
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.ProfilePic != nil {
		set["profile_pic"] = *patch.ProfilePic
	}
	if patch.LoggedIn != nil {
		set["logged_in"] = *patch.LoggedIn
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if patch.LastLoginAt != nil {
		set["last_login_at"] = patch.LastLoginAt.Unix()
	}
	if patch.GoogleAccessToken != nil {
		set["google_access_token"] = *patch.GoogleAccessToken
	}
	if patch.GoogleRefreshToken != nil {
		set["google_refresh_token"] = *patch.GoogleRefreshToken
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return docToUser(doc), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *docToUser(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return docToUser(doc), nil
}

func docToUser(doc userDoc) *domain.User {
	u := &domain.User{
		ID:                 doc.ID.Hex(),
		Email:              doc.Email,
		PasswordHash:       doc.PasswordHash,
		GoogleID:           doc.GoogleID,
		FirstName:          doc.FirstName,
		LastName:           doc.LastName,
		Gender:             doc.Gender,
		Role:               doc.Role,
		ProfilePic:         doc.ProfilePic,
		GoogleAccessToken:  doc.GoogleAccessToken,
		GoogleRefreshToken: doc.GoogleRefreshToken,
		LoggedIn:           doc.LoggedIn,
		Active:             doc.Active,
		CreatedAt:          unixToTime(doc.CreatedAt),
		UpdatedAt:          unixToTime(doc.UpdatedAt),
	}
	if doc.LastLoginAt != 0 {
		t := unixToTime(doc.LastLoginAt)
		u.LastLoginAt = &t
	}
	return u
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
