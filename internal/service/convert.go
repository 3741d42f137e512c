package service

import (
	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/jobs"
	"github.com/dukerupert/orderdesk/internal/repository"
)

func toDomainOrder(o repository.Order, items []repository.OrderItem, shipping *repository.ShippingAddress) *domain.Order {
	order := &domain.Order{
		ID:                o.ID,
		CustomerID:        o.CustomerID,
		Items:             make([]domain.OrderItem, 0, len(items)),
		Total:             o.Total,
		ShippingID:        o.ShippingID,
		FulfillmentStatus: domain.FulfillmentStatus(o.FulfillmentStatus),
		PaymentStatus:     domain.PaymentStatus(o.PaymentStatus),
		PaymentMode:       domain.PaymentMode(o.PaymentMode),
		TransactionID:     o.TransactionID,
		MerchantOrderID:   o.MerchantOrderID,
		BankReferenceID:   o.BankReferenceID,
		IdempotencyKey:    o.IdempotencyKey,
		DueDate:           o.DueDate.UTC(),
		CreatedAt:         o.CreatedAt.UTC(),
		UpdatedAt:         o.UpdatedAt.UTC(),
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}
	if shipping != nil {
		order.Shipping = &domain.ShippingAddress{
			ID:        shipping.ID,
			FirstName: shipping.FirstName,
			LastName:  shipping.LastName,
			Email:     shipping.Email,
			Address:   shipping.Address,
			City:      shipping.City,
			Zip:       shipping.Zip,
		}
	}
	return order
}

func toDomainEvent(e repository.OrderEvent) domain.OrderEvent {
	ev := domain.OrderEvent{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Kind:      domain.OrderEventKind(e.Kind),
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt.UTC(),
	}
	if e.FromValue != nil {
		ev.FromValue = *e.FromValue
	}
	if e.ToValue != nil {
		ev.ToValue = *e.ToValue
	}
	return ev
}

func strPtr(s string) *string {
	return &s
}

// contactOf returns the notification contact for o, empty when the shipping
// address was not loaded.
func contactOf(o *domain.Order) jobs.Contact {
	if o.Shipping == nil {
		return jobs.Contact{}
	}
	return jobs.Contact{Name: o.Shipping.FirstName, Email: o.Shipping.Email}
}
