package postgres

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableDDL devuelve el CREATE TABLE de name dentro de la migración inicial.
func tableDDL(t *testing.T, name string) string {
	t.Helper()
	raw, err := migrationFiles.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + name + ` \((.*?)\n\);`)
	m := re.FindStringSubmatch(string(raw))
	require.Len(t, m, 2, "tabla %s no encontrada", name)
	return m[1]
}

func TestMigracion_MovimientosSobrevivenAlPedido(t *testing.T) {
	ddl := tableDDL(t, "stock_movements")

	assert.NotContains(t, ddl, "REFERENCES client_orders", "borrar un pedido no debe tocar su historial")
	assert.Contains(t, ddl, "REFERENCES products (id) ON DELETE CASCADE")
	assert.Regexp(t, `(?m)^\s*order_id\s+UUID,$`, ddl)
}

func TestMigracion_ItemsSeBorranConElPedido(t *testing.T) {
	ddl := tableDDL(t, "order_items")
	assert.Contains(t, ddl, "REFERENCES client_orders (id) ON DELETE CASCADE")
	assert.Contains(t, ddl, "REFERENCES products (id) ON DELETE RESTRICT")
}
