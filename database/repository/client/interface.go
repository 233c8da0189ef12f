package clientRepo

import (
	"context"

	"marta/database"
	"marta/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ClientRepository is the CRM contact store.
type ClientRepository interface {
	Create(ctx context.Context, client models.Client) (string, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByPhone(ctx context.Context, phone string) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, client models.Client) error
	DeleteByID(ctx context.Context, id string) error
}

type mongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo returns a new ClientRepository instance using MongoDB.
func NewMongoClientRepo() ClientRepository {
	db := database.MongoClient.Database("marta")
	return &mongoClientRepo{
		coll: db.Collection("clients"),
	}
}
