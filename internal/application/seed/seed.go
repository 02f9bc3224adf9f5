// Package seed carga el usuario administrador y datos de muestra.
// Se puede correr varias veces: lo que ya existe se deja como está.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// namespace fijo: los mismos SKU generan los mismos IDs en cada corrida.
var namespace = uuid.MustParse("5b0f7c2e-8a57-4d0b-9a43-3f0d6a1c9e11")

// ProductSeed producto de muestra con su existencia inicial.
type ProductSeed struct {
	SKU          string
	Name         string
	UnitPrice    string
	OpeningQty   int64
	OpeningCost  string
	ReorderLevel int64
}

// Data lo que se va a cargar.
type Data struct {
	AdminUsername string
	AdminPassword string
	ClientName    string
	Products      []ProductSeed
}

// Default datos de muestra para desarrollo.
func Default(adminUser, adminPassword string) Data {
	return Data{
		AdminUsername: adminUser,
		AdminPassword: adminPassword,
		ClientName:    "Cliente de mostrador",
		Products: []ProductSeed{
			{SKU: "ARZ-500", Name: "Arroz 500g", UnitPrice: "3.50", OpeningQty: 120, OpeningCost: "2.10", ReorderLevel: 30},
			{SKU: "FRJ-500", Name: "Fríjol 500g", UnitPrice: "5.20", OpeningQty: 60, OpeningCost: "3.40", ReorderLevel: 20},
			{SKU: "ACT-1L", Name: "Aceite 1L", UnitPrice: "9.90", OpeningQty: 8, OpeningCost: "7.15", ReorderLevel: 12},
		},
	}
}

// ProductID devuelve el ID determinístico de un SKU.
func ProductID(sku string) string {
	return uuid.NewSHA1(namespace, []byte("product:"+sku)).String()
}

// ClientID devuelve el ID determinístico del cliente de muestra.
func ClientID(name string) string {
	return uuid.NewSHA1(namespace, []byte("client:"+name)).String()
}

// Run crea el admin y, en una sola transacción, el cliente y los productos con su entrada inicial.
func Run(ctx context.Context, tx inventory.TxRunner, ledger *inventory.Ledger, authUC *auth.AuthUseCase, data Data, log *logger.Logger) error {
	if data.AdminPassword != "" {
		_, err := authUC.CreateUser(ctx, auth.CreateUserInput{
			Username: data.AdminUsername,
			Password: data.AdminPassword,
			FullName: "Administrador",
			Role:     "admin",
		})
		switch {
		case errors.Is(err, domain.ErrConflict):
			log.Info().Str("username", data.AdminUsername).Msg("seed: el administrador ya existe")
		case err != nil:
			return fmt.Errorf("seed: crear administrador: %w", err)
		default:
			log.Info().Str("username", data.AdminUsername).Msg("seed: administrador creado")
		}
	}

	now := time.Now()
	return tx.Run(ctx, func(s *inventory.Scope) error {
		if data.ClientName != "" {
			id := ClientID(data.ClientName)
			existing, err := s.Clients.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if existing == nil {
				if err := s.Clients.Create(ctx, &entity.Client{ID: id, Name: data.ClientName, CreatedAt: now, UpdatedAt: now}); err != nil {
					return fmt.Errorf("seed: cliente: %w", err)
				}
				log.Info().Str("client_id", id).Msg("seed: cliente creado")
			}
		}

		for _, ps := range data.Products {
			id := ProductID(ps.SKU)
			existing, err := s.Products.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			price, err := decimal.NewFromString(ps.UnitPrice)
			if err != nil {
				return fmt.Errorf("seed: precio de %s: %w", ps.SKU, err)
			}
			p := &entity.Product{
				ID:           id,
				SKU:          ps.SKU,
				Name:         ps.Name,
				UnitPrice:    price,
				ReorderLevel: ps.ReorderLevel,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.Products.Create(ctx, p); err != nil {
				return fmt.Errorf("seed: producto %s: %w", ps.SKU, err)
			}
			if ps.OpeningQty <= 0 {
				continue
			}
			cost, err := decimal.NewFromString(ps.OpeningCost)
			if err != nil {
				return fmt.Errorf("seed: costo de %s: %w", ps.SKU, err)
			}
			// la existencia inicial entra por el libro para que cuadre con el historial
			if _, err := ledger.RecordInTx(ctx, s, inventory.InInput{
				ProductID: id,
				Quantity:  ps.OpeningQty,
				UnitCost:  cost,
				Reference: "SALDO-INICIAL",
				Notes:     "carga inicial",
			}); err != nil {
				return err
			}
			log.Info().Str("sku", ps.SKU).Int64("qty", ps.OpeningQty).Msg("seed: producto creado")
		}
		return nil
	})
}
