package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
)

// ReplenishmentUseCase arma la lista de reposición a partir de los productos en stock bajo.
type ReplenishmentUseCase struct {
	ledger *Ledger
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(ledger *Ledger) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{ledger: ledger}
}

// GenerateReplenishmentList devuelve los productos en o bajo el punto de reorden con la cantidad
// sugerida para volver a 1.5 veces ese punto, priorizados por déficit y luego por margen.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.ledger.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	hundred := decimal.NewFromInt(100)

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		// techo de 1.5 * reorden
		ideal := (p.ReorderLevel*3 + 1) / 2
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}
		var margin decimal.Decimal
		if p.UnitPrice.GreaterThan(decimal.Zero) {
			margin = p.UnitPrice.Sub(p.CostPrice).Div(p.UnitPrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.Quantity,
			ReorderLevel:       p.ReorderLevel,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(suggested)).Round(2),
			GrossMarginPct:     margin,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.ReorderLevel - a.CurrentStock
		defB := b.ReorderLevel - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
