package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshscore/schema"
)

// validRawInput returns a raw input with defaults that pass validation.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		CutoffDay:      DefaultCutoffDay,
		PreRelease:     string(schema.ExcludePreRelease),
		Output:         string(schema.TextOut),
		Precision:      DefaultPrecision,
		Workers:        4,
		Color:          "yes",
		HistoryBackend: string(schema.SQLiteBackend),
		DateColumn:     "Date",
		MaxPages:       DefaultMaxPages,
		MinDelay:       "1s",
		MaxDelay:       "3s",
	}
}

// TestProcessAndValidateDefaults checks a minimal valid input passes through.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validRawInput()
	input.InputFileStr = "reviews.csv"

	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "reviews.csv", cfg.InputFile)
	assert.Equal(t, DefaultCutoffDay, cfg.CutoffDay)
	assert.Equal(t, schema.ExcludePreRelease, cfg.PreRelease)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.True(t, cfg.UseColors)
	assert.True(t, cfg.ReleaseDate.IsZero())
	assert.Equal(t, time.Second, cfg.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.MaxDelay)
}

// TestProcessAndValidateErrors covers each rejected field.
func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
		errSub string
	}{
		{
			name:   "negative cutoff day",
			mutate: func(in *ConfigRawInput) { in.CutoffDay = -1 },
			errSub: "cutoff-day",
		},
		{
			name:   "cutoff day too large",
			mutate: func(in *ConfigRawInput) { in.CutoffDay = MaxCutoffDay + 1 },
			errSub: "cutoff-day",
		},
		{
			name:   "zero workers",
			mutate: func(in *ConfigRawInput) { in.Workers = 0 },
			errSub: "workers",
		},
		{
			name:   "bad pre-release policy",
			mutate: func(in *ConfigRawInput) { in.PreRelease = "ignore" },
			errSub: "pre-release",
		},
		{
			name:   "bad precision",
			mutate: func(in *ConfigRawInput) { in.Precision = 5 },
			errSub: "precision",
		},
		{
			name:   "bad output mode",
			mutate: func(in *ConfigRawInput) { in.Output = "xml" },
			errSub: "output format",
		},
		{
			name:   "bad backend",
			mutate: func(in *ConfigRawInput) { in.HistoryBackend = "oracle" },
			errSub: "history backend",
		},
		{
			name:   "bad color value",
			mutate: func(in *ConfigRawInput) { in.Color = "sometimes" },
			errSub: "color",
		},
		{
			name:   "bad release date",
			mutate: func(in *ConfigRawInput) { in.ReleaseDate = "05/27/2022" },
			errSub: "release date",
		},
		{
			name:   "zero max pages",
			mutate: func(in *ConfigRawInput) { in.MaxPages = 0 },
			errSub: "max-pages",
		},
		{
			name:   "negative max reviews",
			mutate: func(in *ConfigRawInput) { in.MaxReviews = -1 },
			errSub: "max-reviews",
		},
		{
			name:   "unparseable delay",
			mutate: func(in *ConfigRawInput) { in.MinDelay = "fast" },
			errSub: "min-delay",
		},
		{
			name:   "max delay below min delay",
			mutate: func(in *ConfigRawInput) { in.MinDelay = "5s"; in.MaxDelay = "1s" },
			errSub: "delays",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)

			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

// TestProcessReleaseDate verifies the optional override parses into UTC.
func TestProcessReleaseDate(t *testing.T) {
	cfg := &Config{}
	input := validRawInput()
	input.ReleaseDate = "2022-05-27"

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC), cfg.ReleaseDate)
}

// TestValidateDatabaseConnectionString covers the per-backend requirements.
func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/freshscore", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/freshscore", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=freshscore user=fs", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost user=fs", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
