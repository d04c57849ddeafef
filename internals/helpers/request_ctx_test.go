package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uq_programs_code" (SQLSTATE 23505)`)))
	assert.True(t, IsUniqueViolation(errors.New("pq: 23505")))
}

func TestIsUniqueViolation_PgError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503", Message: "violates foreign key"}))
}
