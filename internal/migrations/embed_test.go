package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		stmts, err := For(dialect)
		require.NoError(t, err, dialect)
		require.NotEmpty(t, stmts, dialect)
		assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS movies", dialect)
		assert.Contains(t, stmts[0], "retired_ids", dialect)
	}
}

func TestFor_UnknownDialect(t *testing.T) {
	_, err := For("mysql")
	assert.Error(t, err)
}
