package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore keeps a collection as rows of jsonb documents ordered by a
// seq column. Save rewrites the whole table inside one transaction so the
// snapshot semantics match the file driver exactly.
type PostgresStore struct {
	DB    *sql.DB
	Table string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{DB: db, Table: table}
}

func (s *PostgresStore) Load(v any) error {
	rows, err := s.DB.Query(fmt.Sprintf(`SELECT doc FROM %s ORDER BY seq`, s.Table))
	if err != nil {
		return err
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return err
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (s *PostgresStore) Save(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, s.Table)); err != nil {
		return err
	}
	insert := fmt.Sprintf(`INSERT INTO %s (seq, doc) VALUES ($1, $2)`, s.Table)
	for i, doc := range docs {
		if _, err := tx.Exec(insert, i, []byte(doc)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
