package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"})))
	assert.False(t, isRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("40001 en el texto no cuenta")))
}

func TestViolatesConstraint(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "client_orders_order_number_key"})
	assert.True(t, violatesConstraint(err, "client_orders_order_number_key"))
	assert.False(t, violatesConstraint(err, "products_sku_key"))
	assert.True(t, isUniqueViolation(err))
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "x", derefString(nullString("x")))
	assert.Equal(t, "", derefString(nil))
}
