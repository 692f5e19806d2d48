package storage

import (
	"context"
	"database/sql"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

func init() {
	if err := RegisterStorage(&SQLDB{}); err != nil {
		panic(err)
	}
}

const createKVTable = `CREATE TABLE IF NOT EXISTS vci_kv_store (
	namespace TEXT NOT NULL,
	key TEXT NOT NULL,
	value BYTEA NOT NULL,
	PRIMARY KEY (namespace, key)
)`

// SQLDB is a storage provider backed by postgres. All namespaces share one
// table keyed by (namespace, key).
type SQLDB struct {
	db         *sql.DB
	connString string
}

func (s *SQLDB) Init(opts ...Option) error {
	connString, ok := optionValue[string](opts, PostgresConnectStringOption)
	if !ok {
		return errors.New("postgres connection string option is required")
	}
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return errors.Wrap(err, "opening postgres connection")
	}
	if _, err = db.Exec(createKVTable); err != nil {
		return errors.Wrap(err, "creating kv table")
	}
	s.db = db
	s.connString = connString
	return nil
}

func (s *SQLDB) Type() Type {
	return Postgres
}

func (s *SQLDB) URI() string {
	return s.connString
}

func (s *SQLDB) IsOpen() bool {
	if s.db == nil {
		return false
	}
	return s.db.Ping() == nil
}

func (s *SQLDB) Close() error {
	return s.db.Close()
}

func (s *SQLDB) Write(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vci_kv_store (namespace, key, value) VALUES ($1, $2, $3)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = $3`,
		namespace, key, value)
	return err
}

func (s *SQLDB) Read(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM vci_kv_store WHERE namespace = $1 AND key = $2`,
		namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return value, err
}

func (s *SQLDB) Exists(ctx context.Context, namespace, key string) (bool, error) {
	value, err := s.Read(ctx, namespace, key)
	if err != nil {
		return false, err
	}
	return len(value) > 0, nil
}

func (s *SQLDB) ReadAll(ctx context.Context, namespace string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM vci_kv_store WHERE namespace = $1`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err = rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, rows.Err()
}

func (s *SQLDB) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM vci_kv_store WHERE namespace = $1 AND key = $2`, namespace, key)
	return err
}

func (s *SQLDB) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM vci_kv_store WHERE namespace = $1`, namespace)
	return err
}
