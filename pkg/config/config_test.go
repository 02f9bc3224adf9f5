package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 3, cfg.DB.TxMaxRetries)
	assert.Equal(t, "ORD", cfg.Orders.NumberPrefix)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.Empty(t, cfg.Seed.AdminPassword)
}

func TestFromViper_LeeVariables(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("DB_PORT", "6543")
	v.Set("APP_TIMEZONE", "America/Bogota")
	v.Set("REDIS_ADDRESS", "localhost:6379")
	v.Set("ORDER_NUMBER_PREFIX", "PED")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "PED", cfg.Orders.NumberPrefix)
	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", loc.String())
}

func TestFromViper_RechazaConfiguracionInvalida(t *testing.T) {
	cases := map[string]map[string]string{
		"driver desconocido": {"DB_DRIVER": "sqlite"},
		"zona horaria":       {"APP_TIMEZONE": "Marte/Olympus"},
		"prefijo con guion":  {"ORDER_NUMBER_PREFIX": "OR-D"},
		"production sin jwt": {"APP_ENV": "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range env {
				v.Set(k, val)
			}
			_, err := config.FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/x?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
