package inventory

import "github.com/shopspring/decimal"

// CostPrecision es la cantidad de decimales con que se persiste el costo promedio.
const CostPrecision = 4

// WeightedAverageCost calcula el nuevo costo promedio ponderado tras una entrada:
// ((stockActual * costoActual) + (cantEntrada * costoEntrada)) / (stockActual + cantEntrada)
// Si el total resultante no es positivo devuelve el costo de la entrada.
func WeightedAverageCost(stockActual int64, costoActual decimal.Decimal, cantEntrada int64, costoEntrada decimal.Decimal) decimal.Decimal {
	qty := decimal.NewFromInt(stockActual)
	in := decimal.NewFromInt(cantEntrada)
	sum := qty.Add(in)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoEntrada.Round(CostPrecision)
	}
	if stockActual <= 0 {
		// sin existencias previas el costo anterior no pondera
		return costoEntrada.Round(CostPrecision)
	}
	num := qty.Mul(costoActual).Add(in.Mul(costoEntrada))
	return num.DivRound(sum, CostPrecision)
}
