package database

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeguard/internal/platform/config"
	"storeguard/migrations"
)

func TestNew_EmptyURLDisablesDatabase(t *testing.T) {
	p, err := New(context.Background(), config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPool_NilSafe(t *testing.T) {
	var p *Pool
	assert.Error(t, p.Health(context.Background()))
	assert.NoError(t, p.Close())
	assert.Zero(t, p.Stats().OpenConnections)
}

func TestPool_Health(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectClose()

	p := FromDB(db)
	require.NoError(t, p.Health(context.Background()))
	require.NoError(t, p.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPool_MigrateRunsUpFilesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fsys := fstest.MapFS{
		"000002_b.up.sql":   {Data: []byte("CREATE TABLE b ()")},
		"000001_a.up.sql":   {Data: []byte("CREATE TABLE a ()")},
		"000001_a.down.sql": {Data: []byte("DROP TABLE a")},
	}
	mock.ExpectExec("CREATE TABLE a ()").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE b ()").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, FromDB(db).Migrate(context.Background(), fsys))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPool_MigrateStopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_logs").WillReturnError(errors.New("permission denied"))

	err = FromDB(db).Migrate(context.Background(), migrations.FS)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000001_audit.up.sql")
}
