package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// OrderSheetGenerator genera la hoja del pedido en PDF.
type OrderSheetGenerator interface {
	GenerateOrderPDF(ctx context.Context, detail *OrderDetail, client *entity.Client) ([]byte, error)
}

// PDFUseCase arma los datos del pedido y delega el render al generador.
type PDFUseCase struct {
	tx        inventory.TxRunner
	generator OrderSheetGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(tx inventory.TxRunner, generator OrderSheetGenerator) *PDFUseCase {
	return &PDFUseCase{tx: tx, generator: generator}
}

// DownloadOrderPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) DownloadOrderPDF(ctx context.Context, orderID string) ([]byte, string, error) {
	var detail *OrderDetail
	var client *entity.Client
	err := uc.tx.Run(ctx, func(s *inventory.Scope) error {
		order, err := s.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		items, err := s.Orders.ListItems(ctx, order.ID)
		if err != nil {
			return err
		}
		// nombre de producto para el detalle
		for _, it := range items {
			if it.ProductName != "" {
				continue
			}
			if p, pErr := s.Products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
				it.ProductName = p.Name
			}
		}
		client, err = s.Clients.GetByID(ctx, order.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			client = &entity.Client{ID: order.ClientID, Name: order.ClientName}
		}
		detail = &OrderDetail{Order: order, Items: items}
		return nil
	})
	if err != nil {
		return nil, "", domain.AsPersistence("orders.pdf", err)
	}

	pdfBytes, err := uc.generator.GenerateOrderPDF(ctx, detail, client)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("pedido_%s.pdf", detail.Order.OrderNumber), nil
}
