package http

import (
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		UnitPrice:    p.UnitPrice,
		CostPrice:    p.CostPrice,
		Quantity:     p.Quantity,
		ReorderLevel: p.ReorderLevel,
		LowStock:     p.IsLowStock(),
		UpdatedAt:    p.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Direction: m.Direction,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		OrderID:   m.OrderID,
		Reference: m.Reference,
		Notes:     m.Notes,
		CreatedBy: m.CreatedBy,
		MovedAt:   m.MovedAt,
	}
}

func toOrderResponse(o *entity.ClientOrder, items []*entity.OrderItem) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		ClientID:       o.ClientID,
		ClientName:     o.ClientName,
		OrderDate:      o.OrderDate.Format(dateLayout),
		Status:         o.Status,
		Subtotal:       o.Subtotal,
		TaxRate:        o.TaxRate,
		TaxAmount:      o.TaxAmount,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		PaidAmount:     o.PaidAmount,
		DueAmount:      o.DueAmount,
		PaymentStatus:  o.PaymentStatus,
		PaymentMethod:  o.PaymentMethod,
		Notes:          o.Notes,
		CreatedBy:      o.CreatedBy,
		ConfirmedAt:    o.ConfirmedAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
	}
	if o.DeliveryDate != nil {
		out.DeliveryDate = o.DeliveryDate.Format(dateLayout)
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			Notes:       it.Notes,
		})
	}
	return out
}

func toOrderDetailResponse(d *orders.OrderDetail) dto.OrderResponse {
	return toOrderResponse(d.Order, d.Items)
}
