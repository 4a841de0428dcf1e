package api

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`                           // Indicates if the operation was successful.
	Message string `json:"message,omitempty" example:"Operation successful"` // Optional success message.
	Error   string `json:"error,omitempty" example:"Resource not found"`     // Optional error message.
}

// DB is the subset of *pgxpool.Pool the repositories depend on. pgxmock's
// pool interface satisfies it, so repository tests run without a database.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
