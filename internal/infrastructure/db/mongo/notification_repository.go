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
)

const notificationCollection = "notifications"

// NotificationRepository implements ports.NotificationRepository backed by
// MongoDB. Notifications are immutable after insertion.
type NotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection(notificationCollection)}
}

type notificationDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Message        string             `bson:"message"`
	Icon           string             `bson:"icon,omitempty"`
	CreatedByRole  string             `bson:"created_by_role,omitempty"`
	VisibleToRoles []string           `bson:"visible_to_roles"`
	Severity       string             `bson:"severity"`
	CreatedAt      int64              `bson:"created_at"`
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	now := time.Now().UTC()
	doc := notificationDoc{
		Message:        n.Message,
		Icon:           n.Icon,
		CreatedByRole:  n.CreatedByRole,
		VisibleToRoles: n.VisibleToRoles,
		Severity:       n.Severity,
		CreatedAt:      now.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}

	created := *n
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	return &created, nil
}

func (r *NotificationRepository) FindVisibleToRole(ctx context.Context, role string, limit int64) ([]domain.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, visibilityFilter(role), opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	var notifications []domain.Notification
	for cur.Next(ctx) {
		var doc notificationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		notifications = append(notifications, domain.Notification{
			ID:             doc.ID.Hex(),
			Message:        doc.Message,
			Icon:           doc.Icon,
			CreatedByRole:  doc.CreatedByRole,
			VisibleToRoles: doc.VisibleToRoles,
			Severity:       doc.Severity,
			CreatedAt:      unixToTime(doc.CreatedAt),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) CountVisibleToRole(ctx context.Context, role string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, visibilityFilter(role))
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}

// visibilityFilter matches notifications tagged with the exact role or the
// "All" wildcard.
func visibilityFilter(role string) bson.M {
	return bson.M{"visible_to_roles": bson.M{"$in": []string{role, domain.VisibilityAll}}}
}
