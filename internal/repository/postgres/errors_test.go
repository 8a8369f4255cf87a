package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   string
	}{
		{"plain", "report", `%report%`},
		{"empty", "", `%%`},
		{"percent", "100%", `%100\%%`},
		{"underscore", "budget_final", `%budget\_final%`},
		{"backslash", `a\b`, `%a\\b%`},
		{"backslash before percent", `\%`, `%\\\%%`},
		{"all metacharacters", `%_\`, `%\%\_\\%`},
		{"case kept", "Q3 Plan", `%Q3 Plan%`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LikePattern(tt.search))
		})
	}
}

func TestPgErrorHelpers(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("insert folder: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, IsPgForeignKeyError(wrap("23503")))
	assert.False(t, IsPgForeignKeyError(wrap("23514")))
	assert.True(t, IsPgCheckViolation(wrap("23514")))
	assert.True(t, IsPgInvalidText(wrap("22P02")))
	assert.False(t, IsPgInvalidText(fmt.Errorf("plain")))

	assert.True(t, IsPgNoRowsError(fmt.Errorf("get folder: %w", pgx.ErrNoRows)))
	assert.False(t, IsPgNoRowsError(wrap("23503")))
}
