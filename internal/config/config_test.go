package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()

	assert.Equal(t, "postgres://localhost:5432/eceruza?sslmode=disable", c.PostgresURI)
	assert.Equal(t, "mongodb://localhost:27017/eceruza", c.MongoURI)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisURI)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, c.AllowedOrigins)
	assert.False(t, c.IsProduction())
	assert.False(t, c.RejectPastDeadlines)
}

func TestAllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000 ,")

	c := Load()
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, c.AllowedOrigins)
}

func TestRejectPastDeadlinesToggle(t *testing.T) {
	t.Setenv("REJECT_PAST_DEADLINES", "true")
	assert.True(t, Load().RejectPastDeadlines)

	t.Setenv("REJECT_PAST_DEADLINES", "off")
	assert.False(t, Load().RejectPastDeadlines)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "Production")
	assert.True(t, Load().IsProduction())
}
