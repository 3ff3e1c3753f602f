package mocks

import (
	"cartstore/models"
	"context"

	"github.com/stretchr/testify/mock"
)

type Storage struct {
	mock.Mock
}

func (m *Storage) GetCart(ctx context.Context, username string) (models.Cart, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.Cart), args.Error(1)
}
func (m *Storage) AddToCart(ctx context.Context, username string, productID int64) error {
	args := m.Called(ctx, username, productID)
	return args.Error(0)
}
func (m *Storage) RemoveFromCart(ctx context.Context, username string, productID int64) error {
	args := m.Called(ctx, username, productID)
	return args.Error(0)
}
func (m *Storage) DeleteCart(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
