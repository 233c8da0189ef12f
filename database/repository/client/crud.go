package clientRepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"marta/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no contact matches the lookup.
var ErrNotFound = errors.New("client not found")

// Create inserts a new contact and returns its ID.
func (r *mongoClientRepo) Create(ctx context.Context, client models.Client) (string, error) {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	client.Phone = normalizePhone(client.Phone)
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, client)
	if err != nil {
		return "", err
	}
	return client.ID, nil
}

// GetByID returns a contact by its ID.
func (r *mongoClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByPhone looks a contact up by phone number, ignoring formatting.
func (r *mongoClientRepo) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"phone": normalizePhone(phone)})
}

// GetByEmail looks a contact up by email address.
func (r *mongoClientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *mongoClientRepo) findOne(ctx context.Context, filter bson.M) (*models.Client, error) {
	var client models.Client
	err := r.coll.FindOne(ctx, filter).Decode(&client)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// List returns every contact.
func (r *mongoClientRepo) List(ctx context.Context) ([]models.Client, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clients []models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Update replaces a contact by ID.
func (r *mongoClientRepo) Update(ctx context.Context, client models.Client) error {
	client.Phone = normalizePhone(client.Phone)
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	client.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": client.ID}, client)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a contact by ID.
func (r *mongoClientRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizePhone strips everything but digits and a leading plus, so lookups
// match however the number was typed.
func normalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
