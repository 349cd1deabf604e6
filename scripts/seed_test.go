package scripts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/wecomkit/rulesync/internal/database"
)

// createMockDB creates a mock database for testing
func createMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

// createMockDBAndTx creates a mock database and transaction for testing
func createMockDBAndTx(t *testing.T) (*sql.DB, *sql.Tx, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	mock.ExpectBegin()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	cleanup := func() {
		tx.Rollback()
		db.Close()
	}

	return db, tx, mock, cleanup
}

func TestNewSeeder(t *testing.T) {
	db, _, cleanup := createMockDB(t)
	defer cleanup()

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	assert.NotNil(t, seeder)
	assert.Equal(t, pool, seeder.db)
}

func TestCreateSeedsTable(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnResult(sqlmock.NewResult(0, 0))

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	err := seeder.createSeedsTable(ctx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutedSeeds(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	ctx := context.Background()

	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("demo_corp"))

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	seeds, err := seeder.getExecutedSeeds(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, seeds)
	assert.True(t, seeds["demo_corp"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoCorp(t *testing.T) {
	db, tx, mock, cleanup := createMockDBAndTx(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO wechat_corps").
		WithArgs("wwdemo0000000000", "Demo Corp").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("INSERT INTO wechat_agents").
		WithArgs("wwdemo0000000000", int64(1000001), "Demo Agent", "demo-secret").
		WillReturnResult(sqlmock.NewResult(1, 1))

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	err := seeder.seedDemoCorp(ctx, tx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSampleRule(t *testing.T) {
	db, tx, mock, cleanup := createMockDBAndTx(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM wechat_agents").
		WithArgs("wwdemo0000000000", int64(1000001)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	mock.ExpectExec("INSERT INTO intercept_rules").
		WithArgs("wwdemo0000000000", int64(42), "Sample Rule", `["forbidden"]`, "1", false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	err := seeder.seedSampleRule(ctx, tx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDatabase(t *testing.T) {
	t.Run("Success - Nothing seeded yet", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery("SELECT name FROM seeds").
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO wechat_corps").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO wechat_agents").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO seeds").
			WithArgs("demo_corp").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM wechat_agents").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectExec("INSERT INTO intercept_rules").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO seeds").
			WithArgs("sample_rule").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		pool := &database.Pool{DB: db}
		seeder := NewSeeder(pool)

		err := seeder.SeedDatabase(context.Background())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Seed already executed", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery("SELECT name FROM seeds").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).
				AddRow("demo_corp").
				AddRow("sample_rule"))

		pool := &database.Pool{DB: db}
		seeder := NewSeeder(pool)

		err := seeder.SeedDatabase(context.Background())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error - Seed fails and rolls back", func(t *testing.T) {
		db, mock, cleanup := createMockDB(t)
		defer cleanup()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery("SELECT name FROM seeds").
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO wechat_corps").
			WillReturnError(errors.New("insert failed"))
		mock.ExpectRollback()

		pool := &database.Pool{DB: db}
		seeder := NewSeeder(pool)

		err := seeder.SeedDatabase(context.Background())

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
