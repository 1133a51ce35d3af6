package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Repository is the employee table the handlers serve from.
type Repository interface {
	// List returns one page ordered by id and whether it is the last one.
	// A non-nil id restricts the listing to that single employee.
	List(ctx context.Context, page, size int, id *int64) ([]Employee, bool, error)
	Get(ctx context.Context, id int64) (Employee, error)
	Update(ctx context.Context, id int64, u Update) (Employee, error)
	Insert(ctx context.Context, employees []Employee) error
	Count(ctx context.Context) (int, error)
	Close() error
}

type dialect struct {
	name   string
	driver string
	table  string
	ddl    []string
	dollar bool
	// afterInsert realigns generated ids after explicit-id inserts.
	afterInsert string
}

var (
	sqliteDialect = dialect{
		name:   "sqlite",
		driver: "sqlite",
		table:  "employee",
		ddl: []string{`CREATE TABLE IF NOT EXISTS employee (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT,
			birth_date TEXT,
			profile TEXT NOT NULL DEFAULT '{}'
		)`},
	}
	postgresDialect = dialect{
		name:   "postgres",
		driver: "pgx",
		table:  "employees.employee",
		ddl: []string{
			`CREATE SCHEMA IF NOT EXISTS employees`,
			`CREATE TABLE IF NOT EXISTS employees.employee (
				id BIGSERIAL PRIMARY KEY,
				first_name TEXT NOT NULL,
				last_name TEXT,
				birth_date TEXT,
				profile JSONB NOT NULL DEFAULT '{}'::jsonb
			)`,
		},
		dollar:      true,
		afterInsert: `SELECT setval(pg_get_serial_sequence('employees.employee', 'id'), (SELECT MAX(id) FROM employees.employee))`,
	}
)

func dialectFor(dsn string) dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgresDialect
	}
	return sqliteDialect
}

// rebind rewrites ? placeholders to $n for drivers that need it.
func (d dialect) rebind(q string) string {
	if !d.dollar {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore is a Repository on database/sql. The DSN picks the backend:
// postgres:// URLs use pgx, anything else is a sqlite file path or ":memory:".
type SQLStore struct {
	db *sql.DB
	d  dialect
}

var _ Repository = (*SQLStore)(nil)

// Open connects to dsn and ensures the employee table exists.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	d := dialectFor(dsn)
	if d.name == "sqlite" && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}
	if d.name == "sqlite" {
		// every :memory: connection is a separate database; sqlite also serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.name, err)
	}
	for _, stmt := range d.ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute ddl: %w", err)
		}
	}
	return &SQLStore{db: db, d: d}, nil
}

// Backend names the database in use.
func (s *SQLStore) Backend() string { return s.d.name }

// Close releases the database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) columns() string {
	return "id, first_name, last_name, birth_date, profile"
}

// List returns page (zero-based) of size rows ordered by id.
func (s *SQLStore) List(ctx context.Context, page, size int, id *int64) ([]Employee, bool, error) {
	if size <= 0 {
		return nil, false, fmt.Errorf("page size must be positive, got %d", size)
	}
	if page < 0 {
		return nil, false, fmt.Errorf("page must not be negative, got %d", page)
	}
	if page > math.MaxInt/size-1 {
		return nil, false, fmt.Errorf("page %d is out of range for size %d", page, size)
	}

	q := "SELECT " + s.columns() + " FROM " + s.d.table
	var args []any
	if id != nil {
		q += " WHERE id = ?"
		args = append(args, *id)
	}
	q += " ORDER BY id LIMIT ? OFFSET ?"
	// one extra row tells whether another page exists
	args = append(args, size+1, page*size)

	rows, err := s.db.QueryContext(ctx, s.d.rebind(q), args...)
	if err != nil {
		return nil, false, fmt.Errorf("select employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]Employee, 0, size)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, false, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate employees: %w", err)
	}

	last := len(out) <= size
	if !last {
		out = out[:size]
	}
	return out, last, nil
}

// Get loads one employee.
func (s *SQLStore) Get(ctx context.Context, id int64) (Employee, error) {
	row := s.db.QueryRowContext(ctx, s.d.rebind("SELECT "+s.columns()+" FROM "+s.d.table+" WHERE id = ?"), id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

// Update writes the non-nil fields of u and returns the updated row. Profile
// keys are merged into the stored blob.
func (s *SQLStore) Update(ctx context.Context, id int64, u Update) (Employee, error) {
	if u.Empty() {
		return s.Get(ctx, id)
	}
	if err := s.update(ctx, id, u); err != nil {
		return Employee{}, err
	}
	return s.Get(ctx, id)
}

func (s *SQLStore) update(ctx context.Context, id int64, u Update) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var sets []string
	var args []any
	if u.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, strings.TrimSpace(*u.FirstName))
	}
	if u.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *u.LastName)
	}
	if u.BirthDate != nil {
		sets = append(sets, "birth_date = ?")
		args = append(args, *u.BirthDate)
	}
	if u.touchesProfile() {
		row := tx.QueryRowContext(ctx, s.d.rebind("SELECT "+s.columns()+" FROM "+s.d.table+" WHERE id = ?"), id)
		cur, err := scanEmployee(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		u.applyProfile(&cur.Profile)
		profile, err := json.Marshal(cur.Profile)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		sets = append(sets, "profile = ?")
		args = append(args, string(profile))
	}
	args = append(args, id)

	q := "UPDATE " + s.d.table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := tx.ExecContext(ctx, s.d.rebind(q), args...)
	if err != nil {
		return fmt.Errorf("update employee %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update employee %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Insert adds employees in one transaction, keeping their ids when set.
func (s *SQLStore) Insert(ctx context.Context, employees []Employee) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	withID := s.d.rebind("INSERT INTO " + s.d.table + " (id, first_name, last_name, birth_date, profile) VALUES (?, ?, ?, ?, ?)")
	withoutID := s.d.rebind("INSERT INTO " + s.d.table + " (first_name, last_name, birth_date, profile) VALUES (?, ?, ?, ?)")
	explicit := false
	for _, e := range employees {
		profile, err := json.Marshal(e.Profile)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		if e.ID != 0 {
			explicit = true
			_, err = tx.ExecContext(ctx, withID, e.ID, e.FirstName, e.LastName, e.BirthDate, string(profile))
		} else {
			_, err = tx.ExecContext(ctx, withoutID, e.FirstName, e.LastName, e.BirthDate, string(profile))
		}
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
	}
	if explicit && s.d.afterInsert != "" {
		if _, err := tx.ExecContext(ctx, s.d.afterInsert); err != nil {
			return fmt.Errorf("realign ids: %w", err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored employees.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.d.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}

// Seed fills an empty table with n generated employees. It does nothing when
// rows already exist and reports how many were inserted.
func Seed(ctx context.Context, repo Repository, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	have, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if have > 0 {
		return 0, nil
	}
	if err := repo.Insert(ctx, SeedEmployees(n)); err != nil {
		return 0, err
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (Employee, error) {
	var (
		e         Employee
		lastName  sql.NullString
		birthDate sql.NullString
		profile   []byte
	)
	if err := row.Scan(&e.ID, &e.FirstName, &lastName, &birthDate, &profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, err
		}
		return Employee{}, fmt.Errorf("scan employee: %w", err)
	}
	e.LastName = lastName.String
	e.BirthDate = birthDate.String
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &e.Profile); err != nil {
			return Employee{}, fmt.Errorf("decode profile for %d: %w", e.ID, err)
		}
	}
	return e, nil
}
