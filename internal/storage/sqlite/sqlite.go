// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"splitlink/internal/models"
	"splitlink/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert creates or fully replaces a snapshot. All child rows are rewritten
// inside one transaction so readers never see a half-written snapshot.
func (s *SQLiteStore) Upsert(ctx context.Context, snap *models.ExpenseSnapshot) error {
	// Generate identity if not set
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt == "" {
		snap.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Cascades to members, items, and shares
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", snap.ID); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	var serviceCharge sql.NullFloat64
	if snap.Expense.ServiceCharge != nil {
		serviceCharge = sql.NullFloat64{Float64: *snap.Expense.ServiceCharge, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots
		 (id, group_id, group_name, payer_id, merchant, date, currency,
		  subtotal, tax, service_charge, sgst, cgst, discount, total, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.GroupID, snap.GroupName, snap.PayerID,
		snap.Expense.Merchant, snap.Expense.Date, snap.Expense.Currency,
		snap.Expense.Subtotal, snap.Expense.Tax, serviceCharge,
		snap.Expense.SGST, snap.Expense.CGST, snap.Expense.Discount,
		snap.Expense.Total, snap.Expense.Notes, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for i, m := range snap.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO snapshot_members (snapshot_id, position, member_id, name, wallet) VALUES (?, ?, ?, ?, ?)",
			snap.ID, i, m.ID, m.Name, m.Wallet,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	for i, item := range snap.Expense.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO snapshot_items (snapshot_id, position, item_id, name, qty, price, category) VALUES (?, ?, ?, ?, ?, ?, ?)",
			snap.ID, i, item.ID, item.Name, item.Qty, item.Price, string(item.Category),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	for i, share := range snap.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO snapshot_shares (snapshot_id, position, member_id, amount) VALUES (?, ?, ?, ?)",
			snap.ID, i, share.MemberID, share.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get retrieves a snapshot by id, including members, items, and shares in
// their original order.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.ExpenseSnapshot, error) {
	snap := &models.ExpenseSnapshot{}
	var serviceCharge sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, group_name, payer_id, merchant, date, currency,
		        subtotal, tax, service_charge, sgst, cgst, discount, total, notes, created_at
		 FROM snapshots WHERE id = ?`,
		id,
	).Scan(
		&snap.ID, &snap.GroupID, &snap.GroupName, &snap.PayerID,
		&snap.Expense.Merchant, &snap.Expense.Date, &snap.Expense.Currency,
		&snap.Expense.Subtotal, &snap.Expense.Tax, &serviceCharge,
		&snap.Expense.SGST, &snap.Expense.CGST, &snap.Expense.Discount,
		&snap.Expense.Total, &snap.Expense.Notes, &snap.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if serviceCharge.Valid {
		snap.Expense.ServiceCharge = &serviceCharge.Float64
	}

	if err := s.loadChildren(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Delete removes a snapshot and its child rows.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List returns all snapshots, newest first. Order is stable for display only.
func (s *SQLiteStore) List(ctx context.Context) ([]models.ExpenseSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM snapshots ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	snaps := make([]models.ExpenseSnapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return snaps, nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, snap *models.ExpenseSnapshot) error {
	memberRows, err := s.db.QueryContext(ctx,
		"SELECT member_id, name, wallet FROM snapshot_members WHERE snapshot_id = ? ORDER BY position",
		snap.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var m models.GroupMember
		if err := memberRows.Scan(&m.ID, &m.Name, &m.Wallet); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		snap.Members = append(snap.Members, m)
	}
	if err := memberRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, name, qty, price, category FROM snapshot_items WHERE snapshot_id = ? ORDER BY position",
		snap.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.LineItem
		var category string
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Qty, &item.Price, &category); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		item.Category = models.Category(category)
		snap.Expense.Items = append(snap.Expense.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount FROM snapshot_shares WHERE snapshot_id = ? ORDER BY position",
		snap.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var share models.Share
		if err := shareRows.Scan(&share.MemberID, &share.Amount); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		snap.Shares = append(snap.Shares, share)
	}
	if err := shareRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}

	return nil
}
