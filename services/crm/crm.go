package crm

import (
	"context"
	"fmt"
	"strings"

	clientRepo "marta/database/repository/client"
	"marta/models"
)

// Service manages the CRM contact book the assistant resolves callers and
// recipients against.
type Service interface {
	Register(ctx context.Context, client models.Client) (*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	LookupByPhone(ctx context.Context, phone string) (*models.Client, error)
	LookupByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, client models.Client) (*models.Client, error)
	Delete(ctx context.Context, id string) error
}

type DefaultCRMService struct {
	Repo clientRepo.ClientRepository
}

func NewDefaultCRMService(repo clientRepo.ClientRepository) *DefaultCRMService {
	return &DefaultCRMService{Repo: repo}
}

func (s *DefaultCRMService) Register(ctx context.Context, client models.Client) (*models.Client, error) {
	if strings.TrimSpace(client.Name) == "" {
		return nil, fmt.Errorf("client name is required")
	}
	if strings.TrimSpace(client.Phone) == "" && strings.TrimSpace(client.Email) == "" {
		return nil, fmt.Errorf("a phone number or email is required")
	}
	id, err := s.Repo.Create(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to register client: %w", err)
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultCRMService) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultCRMService) LookupByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return s.Repo.GetByPhone(ctx, phone)
}

func (s *DefaultCRMService) LookupByEmail(ctx context.Context, email string) (*models.Client, error) {
	return s.Repo.GetByEmail(ctx, email)
}

func (s *DefaultCRMService) List(ctx context.Context) ([]models.Client, error) {
	return s.Repo.List(ctx)
}

func (s *DefaultCRMService) Update(ctx context.Context, client models.Client) (*models.Client, error) {
	if client.ID == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if err := s.Repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, client.ID)
}

func (s *DefaultCRMService) Delete(ctx context.Context, id string) error {
	return s.Repo.DeleteByID(ctx, id)
}
