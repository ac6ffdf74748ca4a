package models

import (
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when a decrement would drive a product's
// stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// LockForUpdate adds a FOR UPDATE row lock on dialects that support it.
// SQLite has no FOR UPDATE syntax; its single-writer transactions already
// serialize the read-modify-write.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// DecrementStock atomically subtracts quantity from the product's stock.
// The row is locked for the duration of tx, so two concurrent decrements for
// the same product serialize and cannot both pass the floor check. Must be
// called inside a transaction.
func DecrementStock(tx *gorm.DB, productID uint, quantity int) (int, error) {
	var product Product
	if err := LockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
		return 0, err
	}

	if product.Stock < quantity {
		return product.Stock, ErrInsufficientStock
	}

	product.Stock -= quantity
	if err := tx.Save(&product).Error; err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// DecrementAll applies the stock decrement for every line of an order,
// all-or-nothing: every product is locked and checked before any row is
// written, so either all lines are decremented or none are. Products are
// locked in ID order to keep concurrent multi-line orders deadlock free.
func DecrementAll(tx *gorm.DB, items []OrderItem) error {
	sorted := make([]OrderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	products := make([]Product, 0, len(sorted))
	for _, item := range sorted {
		var product Product
		if err := LockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
			return err
		}
		if product.Stock < item.Quantity {
			return ErrInsufficientStock
		}
		product.Stock -= item.Quantity
		products = append(products, product)
	}

	for i := range products {
		if err := tx.Save(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
