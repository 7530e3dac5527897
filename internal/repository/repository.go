package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// repository implements Store over Postgres.
type repository struct {
	database *sql.DB
}

// NewRepository returns a new Postgres implementation of Store.
func NewRepository(database *sql.DB) Store {
	return &repository{database: database}
}

func (r *repository) FindByAccount(ctx context.Context, provider, uid string) (User, error) {
	query, args := findUserByAccountQuery(provider, uid)
	return r.findOne(ctx, query, args)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	query, args := findUserByEmailQuery(email)
	return r.findOne(ctx, query, args)
}

func (r *repository) FindByID(ctx context.Context, id string) (User, error) {
	// Postgres would reject a malformed UUID with an error instead of returning no rows.
	if _, err := uuid.Parse(id); err != nil {
		return User{}, ErrNotFound
	}

	query, args := findUserByIDQuery(id)
	return r.findOne(ctx, query, args)
}

func (r *repository) CreateUser(ctx context.Context, user User) (User, error) {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now

	tx, err := r.database.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("error in BeginTx call: %w", err)
	}
	// This is a no-op once the transaction is committed.
	defer func() { _ = tx.Rollback() }()

	query, args := insertUserQuery(user)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return User{}, wrapWriteErr("error in user insertion", err)
	}

	for _, acc := range user.Accounts {
		query, args := insertAccountQuery(user.ID, acc)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return User{}, wrapWriteErr("error in account insertion", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("error in Commit call: %w", err)
	}

	slog.InfoContext(ctx, "user created successfully", "id", user.ID, "accounts", len(user.Accounts))
	return user, nil
}

func (r *repository) LinkAccount(ctx context.Context, userID string, account Account, displayName string) error {
	tx, err := r.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error in BeginTx call: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args := updateDisplayNameQuery(userID, displayName)
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error in user update: %w", err)
	}

	if af, _ := result.RowsAffected(); af == 0 {
		return ErrNotFound
	}

	query, args = insertAccountQuery(userID, account)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteErr("error in account insertion", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error in Commit call: %w", err)
	}

	slog.InfoContext(ctx, "account linked successfully", "id", userID, "provider", account.Provider)
	return nil
}

// findOne runs the given single-user query and loads the user's accounts.
func (r *repository) findOne(ctx context.Context, query string, args []any) (User, error) {
	var user User
	err := r.database.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("error in QueryRowContext call: %w", err)
	}

	accounts, err := r.listAccounts(ctx, user.ID)
	if err != nil {
		return User{}, err
	}

	user.Accounts = accounts
	return user, nil
}

// listAccounts returns the user's accounts in the order they were linked.
func (r *repository) listAccounts(ctx context.Context, userID string) ([]Account, error) {
	query, args := listAccountsQuery(userID)
	rows, err := r.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error in QueryContext call: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []Account{}
	for rows.Next() {
		var acc Account
		if err := rows.Scan(&acc.Provider, &acc.UID); err != nil {
			return nil, fmt.Errorf("error in rows.Scan call: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error in rows iteration: %w", err)
	}

	return accounts, nil
}

// wrapWriteErr maps unique constraint violations to ErrConflict and wraps everything else.
func wrapWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%s: %w", msg, errors.Join(ErrConflict, err))
	}
	return fmt.Errorf("%s: %w", msg, err)
}
