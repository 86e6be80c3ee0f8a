package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		balance INTEGER NOT NULL DEFAULT 0,
		diamonds INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE wallet_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		balance_before INTEGER NOT NULL,
		balance_after INTEGER NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME
	);`)
}

func createGiftTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE gifts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		diamond_value INTEGER NOT NULL DEFAULT 0,
		image_url TEXT,
		is_active BOOLEAN DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE gift_sends (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		gift_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		total_price INTEGER NOT NULL,
		room_id TEXT NOT NULL,
		idempotency_key TEXT UNIQUE NOT NULL,
		created_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createGrantTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE grants (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(user_id, type)
	);`)
	mustExec(t, db, `CREATE TABLE admin_actions (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		action TEXT NOT NULL,
		target_id TEXT,
		reason TEXT,
		created_at DATETIME
	);`)
}

func createRoomTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE rooms (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE room_memberships (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		is_banned BOOLEAN DEFAULT 0,
		banned_until DATETIME,
		is_muted BOOLEAN DEFAULT 0,
		muted_until DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(room_id, user_id)
	);`)
	mustExec(t, db, `CREATE TABLE pending_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createHousekeepingTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE auth_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token_hash TEXT UNIQUE NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		body TEXT,
		is_read BOOLEAN DEFAULT 0,
		created_at DATETIME
	);`)
}
