package cartservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	databaseerrors "cartstore/database"
	"cartstore/models"
	"cartstore/pkg/lib/logger/sl"
	serviceerrors "cartstore/service"
)

// CartStorage is the persistence contract the service runs on. Absence
// of a cart is never reported through it as an error: GetCart yields
// empty contents and the mutations are no-ops.
type CartStorage interface {
	GetCart(ctx context.Context, username string) (models.Cart, error)
	AddToCart(ctx context.Context, username string, productID int64) error
	RemoveFromCart(ctx context.Context, username string, productID int64) error
	DeleteCart(ctx context.Context, username string) error
}

type CartStoreService struct {
	log     *slog.Logger
	storage CartStorage
}

func New(log *slog.Logger, storage CartStorage) *CartStoreService {
	return &CartStoreService{
		log:     log,
		storage: storage,
	}
}

// GetCart returns the product ids in the user's cart, in the order they
// were added, duplicates included. An unknown username yields an empty
// slice.
func (c *CartStoreService) GetCart(ctx context.Context, username string) ([]int64, error) {
	const op = "service.cartstore.GetCart"
	log := c.log.With("op", op)

	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn("context canceled", sl.Err(err))
				return nil, fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
			} else if errors.Is(err, context.DeadlineExceeded) {
				log.Warn("deadline exceeded", sl.Err(err))
				return nil, fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
			} else {
				log.Error("unexpected error", sl.Err(err))
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	default:
	}

	cart, err := c.storage.GetCart(ctx, username)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("context canceled", sl.Err(serviceerrors.ErrContextCanceled))
			return nil, fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
		} else if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("deadline exceeded", sl.Err(serviceerrors.ErrDeadlineExceeded))
			return nil, fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
		} else if errors.Is(err, databaseerrors.ErrMalformedContents) {
			log.Error("stored contents are not a json array", sl.Err(serviceerrors.ErrMalformedContents))
			return nil, fmt.Errorf("%s: %w", op, serviceerrors.ErrMalformedContents)
		} else {
			log.Error("Failed to read cart", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return cart.Contents, nil
}

// AddToCart appends productID to the user's cart, creating the cart on
// first use. The product id is not checked against any catalog.
func (c *CartStoreService) AddToCart(ctx context.Context, username string, productID int64) error {
	const op = "service.cartstore.AddToCart"
	log := c.log.With("op", op)

	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn("context canceled", sl.Err(err))
				return fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
			} else if errors.Is(err, context.DeadlineExceeded) {
				log.Warn("deadline exceeded", sl.Err(err))
				return fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
			} else {
				log.Error("unexpected error", sl.Err(err))
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	default:
	}

	if err := c.storage.AddToCart(ctx, username, productID); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("context canceled", sl.Err(serviceerrors.ErrContextCanceled))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
		} else if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("deadline exceeded", sl.Err(serviceerrors.ErrDeadlineExceeded))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
		} else if errors.Is(err, databaseerrors.ErrMalformedContents) {
			log.Error("stored contents are not a json array", sl.Err(serviceerrors.ErrMalformedContents))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrMalformedContents)
		} else {
			log.Error("Failed to add item to cart", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// RemoveFromCart removes the first occurrence of productID. A missing
// cart or an absent product is a silent no-op, not an error.
func (c *CartStoreService) RemoveFromCart(ctx context.Context, username string, productID int64) error {
	const op = "service.cartstore.RemoveFromCart"
	log := c.log.With("op", op)

	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn("context canceled", sl.Err(err))
				return fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
			} else if errors.Is(err, context.DeadlineExceeded) {
				log.Warn("deadline exceeded", sl.Err(err))
				return fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
			} else {
				log.Error("unexpected error", sl.Err(err))
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	default:
	}

	if err := c.storage.RemoveFromCart(ctx, username, productID); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("context canceled", sl.Err(serviceerrors.ErrContextCanceled))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
		} else if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("deadline exceeded", sl.Err(serviceerrors.ErrDeadlineExceeded))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
		} else if errors.Is(err, databaseerrors.ErrMalformedContents) {
			log.Error("stored contents are not a json array", sl.Err(serviceerrors.ErrMalformedContents))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrMalformedContents)
		} else {
			log.Error("Failed to remove item from cart", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// DeleteCart drops the user's cart; deleting a cart that never existed
// is a no-op.
func (c *CartStoreService) DeleteCart(ctx context.Context, username string) error {
	const op = "service.cartstore.DeleteCart"
	log := c.log.With("op", op)

	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn("context canceled", sl.Err(err))
				return fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
			} else if errors.Is(err, context.DeadlineExceeded) {
				log.Warn("deadline exceeded", sl.Err(err))
				return fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
			} else {
				log.Error("unexpected error", sl.Err(err))
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	default:
	}

	if err := c.storage.DeleteCart(ctx, username); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("context canceled", sl.Err(serviceerrors.ErrContextCanceled))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrContextCanceled)
		} else if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("deadline exceeded", sl.Err(serviceerrors.ErrDeadlineExceeded))
			return fmt.Errorf("%s: %w", op, serviceerrors.ErrDeadlineExceeded)
		} else {
			log.Error("Failed to delete cart", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
