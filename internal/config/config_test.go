package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	raw := `
server:
  port: 9090
storage:
  driver: postgres
database:
  host: db.internal
  port: 5432
  user: medagent
  password: secret
  name: reports
analysis:
  engine: sim
  agentTimeoutSeconds: 15
  agents:
    - id: gemma2-9b
      name: Dr. Gemma
      model: gemma2:9b
      specialty: General Medicine Specialist
ratelimit:
  capacity: 50
  refillRate: 10
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "sim", cfg.Analysis.Engine)
	assert.Equal(t, 15, cfg.Analysis.AgentTimeoutSeconds)
	require.Len(t, cfg.Analysis.Agents, 1)
	assert.Equal(t, "Dr. Gemma", cfg.Analysis.Agents[0].Name)
	assert.Equal(t, 50, cfg.RateLimit.Capacity)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestDSNHelpers(t *testing.T) {
	var cfg Config
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = 3306
	cfg.Database.User = "medagent"
	cfg.Database.Password = "secret"
	cfg.Database.Name = "reports"

	assert.Equal(t,
		"medagent:secret@tcp(db.internal:3306)/reports?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())

	cfg.Database.Port = 5432
	assert.Contains(t, cfg.PostgresDSN(), "sslmode=disable")

	cfg.Database.SSLMode = "require"
	assert.Contains(t, cfg.PostgresDSN(), "sslmode=require")
}
