package services

import (
	"context"
	"strings"

	"invoice-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CustomerService struct {
	Repo     CustomerStore
	validate *validator.Validate
}

func NewCustomerService(repo CustomerStore) *CustomerService {
	return &CustomerService{Repo: repo, validate: newValidator()}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, userID string, req *models.CreateCustomerRequest) (*models.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, userID, id string) (*models.Customer, error) {
	return s.Repo.Get(ctx, userID, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context, userID string) ([]*models.Customer, error) {
	return s.Repo.List(ctx, userID)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, userID, id string, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	customer, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address

	if err := s.Repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}
