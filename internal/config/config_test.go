package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	cfg := fromViper()

	require.Equal(t, 15.0, cfg.Pricing.DefaultTaxRate)
	require.Equal(t, "SAR", cfg.Pricing.Currency)
	require.False(t, cfg.Workflow.EnforceSectionOrder)
	require.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	require.Equal(t, "paid", cfg.Invoice.DefaultStatus)
	require.Equal(t, "postgres", cfg.Database.Driver)
}

func TestEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("PRICING_DEFAULT_TAX_RATE", "5")
	t.Setenv("WORKFLOW_ENFORCE_SECTION_ORDER", "true")
	viper.AutomaticEnv()
	setDefaults()

	cfg := fromViper()

	require.Equal(t, 5.0, cfg.Pricing.DefaultTaxRate)
	require.True(t, cfg.Workflow.EnforceSectionOrder)
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}

	require.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
