package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSelect(t *testing.T) {
	t.Parallel()

	t.Run("defaults to star", func(t *testing.T) {
		t.Parallel()
		sql, args := Table("users").SQL()
		assert.Equal(t, "SELECT * FROM users", sql)
		assert.Empty(t, args)
	})

	t.Run("full chain", func(t *testing.T) {
		t.Parallel()
		sql, args := Table("users").
			Select("id", "email").
			Where("status = ?", "active").
			Where("age >= ?", 18).
			OrderBy("created_at DESC").
			Limit(20).
			Offset(40).
			SQL()

		assert.Equal(t,
			"SELECT id, email FROM users WHERE status = $1 AND age >= $2 ORDER BY created_at DESC LIMIT 20 OFFSET 40",
			sql)
		assert.Equal(t, []any{"active", 18}, args)
	})

	t.Run("multi-placeholder condition", func(t *testing.T) {
		t.Parallel()
		sql, args := Table("events").Where("ts BETWEEN ? AND ?", 1, 2).SQL()
		assert.Equal(t, "SELECT * FROM events WHERE ts BETWEEN $1 AND $2", sql)
		assert.Equal(t, []any{1, 2}, args)
	})

	t.Run("limit zero is kept", func(t *testing.T) {
		t.Parallel()
		sql, _ := Table("users").Limit(0).SQL()
		assert.Equal(t, "SELECT * FROM users LIMIT 0", sql)
	})
}

func TestBuilderInsert(t *testing.T) {
	t.Parallel()

	sql, args := Table("users").Insert(map[string]any{
		"email": "a@b.c",
		"name":  "Ada",
		"age":   36,
	})

	// Columns sort alphabetically so the statement is stable across runs.
	assert.Equal(t, "INSERT INTO users (age, email, name) VALUES ($1, $2, $3)", sql)
	assert.Equal(t, []any{36, "a@b.c", "Ada"}, args)
}

func TestBuilderUpdate(t *testing.T) {
	t.Parallel()

	sql, args := Table("users").
		Where("id = ?", 7).
		Update(map[string]any{"name": "Ada", "email": "a@b.c"})

	require.Equal(t, "UPDATE users SET email = $1, name = $2 WHERE id = $3", sql)
	assert.Equal(t, []any{"a@b.c", "Ada", 7}, args)
}

func TestBuilderDelete(t *testing.T) {
	t.Parallel()

	t.Run("with condition", func(t *testing.T) {
		t.Parallel()
		sql, args := Table("sessions").Where("expires_at < ?", 100).Delete()
		assert.Equal(t, "DELETE FROM sessions WHERE expires_at < $1", sql)
		assert.Equal(t, []any{100}, args)
	})

	t.Run("unconditional", func(t *testing.T) {
		t.Parallel()
		sql, args := Table("sessions").Delete()
		assert.Equal(t, "DELETE FROM sessions", sql)
		assert.Empty(t, args)
	})
}
