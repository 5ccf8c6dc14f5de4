package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Battle: BattleConfig{
			Seed:         42,
			TypeMatching: "normalized",
			MaxRounds:    100,
		},
		Content: ContentConfig{
			TrainersDir:            "content/trainers",
			ScriptsDir:             "content/scripts",
			ScriptInstructionLimit: 100000,
		},
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: console
  output: stdout
battle:
  seed: 7
  type_matching: literal
  max_rounds: 25
content:
  trainers_dir: /srv/trainers
  scripts_dir: /srv/scripts
  script_instruction_limit: 5000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, int64(7), cfg.Battle.Seed)
	assert.Equal(t, "literal", cfg.Battle.TypeMatching)
	assert.Equal(t, 25, cfg.Battle.MaxRounds)
	assert.Equal(t, "/srv/trainers", cfg.Content.TrainersDir)
	assert.Equal(t, "/srv/scripts", cfg.Content.ScriptsDir)
	assert.Equal(t, 5000, cfg.Content.ScriptInstructionLimit)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "battle:\n  seed: 3\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "normalized", cfg.Battle.TypeMatching)
	assert.Equal(t, 100, cfg.Battle.MaxRounds)
	assert.Equal(t, "content/trainers", cfg.Content.TrainersDir)
	assert.Empty(t, cfg.Content.ScriptsDir)
	assert.Equal(t, 100000, cfg.Content.ScriptInstructionLimit)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POKEBATTLE_BATTLE_SEED", "99")
	t.Setenv("POKEBATTLE_LOGGING_LEVEL", "warn")
	path := writeConfig(t, "battle:\n  seed: 3\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Battle.Seed)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := writeConfig(t, "battle:\n  type_matching: fuzzy\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "battle.type_matching")
}

func TestLoadFromViper_DefaultsOnly(t *testing.T) {
	cfg, err := LoadFromViper(NewViper())
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Battle.Seed)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingOutput(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Output = "/var/log/battle.log"
	assert.Error(t, cfg.Validate())
}

func TestValidateTypeMatching(t *testing.T) {
	for _, m := range []string{"normalized", "literal"} {
		cfg := validConfig()
		cfg.Battle.TypeMatching = m
		assert.NoError(t, cfg.Validate(), "mode %q should be valid", m)
	}
	cfg := validConfig()
	cfg.Battle.TypeMatching = "Normalized"
	assert.Error(t, cfg.Validate())
}

func TestValidateTrainersDirEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Content.TrainersDir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateScriptsDirMayBeEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Content.ScriptsDir = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidate_AggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Battle.MaxRounds = 0
	cfg.Content.ScriptInstructionLimit = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "battle.max_rounds")
	assert.Contains(t, err.Error(), "content.script_instruction_limit")
}

// Property-based tests

func TestPropertyMaxRounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rounds := rapid.IntRange(-1000, 1000).Draw(t, "max_rounds")
		cfg := validConfig()
		cfg.Battle.MaxRounds = rounds
		err := cfg.Validate()
		if rounds >= 1 && err != nil {
			t.Fatalf("valid max_rounds %d rejected: %v", rounds, err)
		}
		if rounds < 1 && err == nil {
			t.Fatalf("invalid max_rounds %d accepted", rounds)
		}
	})
}

func TestPropertyAnySeedIsValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Battle.Seed = rapid.Int64().Draw(t, "seed")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("seed %d rejected: %v", cfg.Battle.Seed, err)
		}
	})
}
