package services

import (
	"context"
	"errors"
	"testing"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer(t *testing.T) {
	store := newFakeCustomerStore()
	svc := NewCustomerService(store)

	c, err := svc.CreateCustomer(context.Background(), "u1", &models.CreateCustomerRequest{
		Name:  "  Acme Ltd ",
		Email: "ap@acme.test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "Acme Ltd", c.Name)
	assert.Len(t, store.customers, 1)
}

func TestCreateCustomer_Validation(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerStore())

	tests := []struct {
		req   models.CreateCustomerRequest
		field string
	}{
		{models.CreateCustomerRequest{Name: "   "}, "name"},
		{models.CreateCustomerRequest{Name: "Acme", Email: "not-an-email"}, "email"},
	}
	for _, tt := range tests {
		req := tt.req
		_, err := svc.CreateCustomer(context.Background(), "u1", &req)
		var ve *billing.ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Equal(t, tt.field, ve.Field)
	}
}

func TestUpdateCustomer_TenantScoped(t *testing.T) {
	store := newFakeCustomerStore(&models.Customer{ID: "c1", UserID: "u1", Name: "Old"})
	svc := NewCustomerService(store)

	_, err := svc.UpdateCustomer(context.Background(), "u2", "c1", &models.UpdateCustomerRequest{Name: "New"})
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := svc.UpdateCustomer(context.Background(), "u1", "c1", &models.UpdateCustomerRequest{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", c.Name)
	assert.Equal(t, "New", store.customers["c1"].Name)
}
