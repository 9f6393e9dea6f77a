// ABOUTME: Tests for SQLite account store implementation
// ABOUTME: Covers account creation, duplicate identity rejection, and lookups

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

func testAccount(username, email string) *Account {
	return &Account{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestCreateAndGetAccount(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	account := testAccount("alice01", "alice@example.com")

	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	got, err := store.GetAccountByUsername(ctx, "alice01")
	if err != nil {
		t.Fatalf("GetAccountByUsername failed: %v", err)
	}

	if got.ID != account.ID {
		t.Errorf("ID = %q, want %q", got.ID, account.ID)
	}
	if got.Email != account.Email {
		t.Errorf("Email = %q, want %q", got.Email, account.Email)
	}
	if got.Username != account.Username {
		t.Errorf("Username = %q, want %q", got.Username, account.Username)
	}
	if got.PasswordHash != account.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, account.PasswordHash)
	}
	if !got.CreatedAt.Equal(account.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, account.CreatedAt)
	}

	byID, err := store.GetAccountByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if byID.Username != account.Username {
		t.Errorf("GetAccountByID Username = %q, want %q", byID.Username, account.Username)
	}
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()

	if err := store.CreateAccount(ctx, testAccount("alice01", "alice@example.com")); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	// Same username, different email
	err := store.CreateAccount(ctx, testAccount("alice01", "other@example.com"))
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("CreateAccount error = %v, want ErrDuplicateIdentity", err)
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()

	if err := store.CreateAccount(ctx, testAccount("alice01", "alice@example.com")); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	// Same email, different username
	err := store.CreateAccount(ctx, testAccount("bob02", "alice@example.com"))
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("CreateAccount error = %v, want ErrDuplicateIdentity", err)
	}
}

func TestCreateAccount_ConcurrentDuplicates(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Race N inserts on the same username; the database must admit exactly one
	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.CreateAccount(ctx, testAccount("raceuser", fmt.Sprintf("race%d@example.com", i)))
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateIdentity):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != n-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, n-1)
	}
}

func TestGetAccountByUsername_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.GetAccountByUsername(context.Background(), "nobody")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetAccountByUsername error = %v, want ErrAccountNotFound", err)
	}
}

func TestGetAccountByID_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.GetAccountByID(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetAccountByID error = %v, want ErrAccountNotFound", err)
	}
}

func TestCountAccounts(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()

	count, err := store.CountAccounts(ctx)
	if err != nil {
		t.Fatalf("CountAccounts failed: %v", err)
	}
	if count != 0 {
		t.Errorf("CountAccounts = %d, want 0", count)
	}

	for i := 0; i < 3; i++ {
		acc := testAccount(fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i))
		if err := store.CreateAccount(ctx, acc); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
	}

	count, err = store.CountAccounts(ctx)
	if err != nil {
		t.Fatalf("CountAccounts failed: %v", err)
	}
	if count != 3 {
		t.Errorf("CountAccounts = %d, want 3", count)
	}
}
