package repository

import (
	"context"

	"github.com/etproforma/commerce/internal/domain/model"
)

// ProductRepository reads catalog products. Stock is never mutated here;
// reservation happens inside OrderRepository.Create so that the decrement
// and the order insert share one transaction.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}
