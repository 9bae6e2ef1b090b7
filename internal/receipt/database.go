package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const recordsBucketName = "records"

var errDuplicateID = errors.New("record id already exists")

// DB defines the interface for the record table
type DB interface {
	// InsertRecord stores a new record. It never overwrites an existing ID.
	InsertRecord(record *Record) error

	// GetRecord retrieves a record by ID
	GetRecord(id string) (*Record, error)

	// Close releases the underlying resources
	Close() error
}

// MemoryDB keeps records in a map for the lifetime of the process
type MemoryDB struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryDB creates an empty MemoryDB
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{records: make(map[string]*Record)}
}

// InsertRecord stores a copy of the record
func (m *MemoryDB) InsertRecord(record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; ok {
		return &InternalError{Op: "inserting record", Err: fmt.Errorf("%w: %s", errDuplicateID, record.ID)}
	}
	m.records[record.ID] = copyRecord(record)
	return nil
}

// GetRecord returns a copy of the stored record
func (m *MemoryDB) GetRecord(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return copyRecord(record), nil
}

// Close is a no-op for MemoryDB
func (m *MemoryDB) Close() error {
	return nil
}

func copyRecord(r *Record) *Record {
	return &Record{
		ID:      r.ID,
		Receipt: r.Receipt.clone(),
		Score:   r.Score.clone(),
	}
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordsBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// InsertRecord checks for an existing key and writes the record in one transaction
func (b *BoltDB) InsertRecord(record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return &InternalError{Op: "marshaling record", Err: err}
	}

	err = b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordsBucketName))
		if bucket.Get([]byte(record.ID)) != nil {
			return fmt.Errorf("%w: %s", errDuplicateID, record.ID)
		}
		return bucket.Put([]byte(record.ID), data)
	})
	if err != nil {
		return &InternalError{Op: "inserting record", Err: err}
	}
	return nil
}

// GetRecord retrieves a record by ID
func (b *BoltDB) GetRecord(id string) (*Record, error) {
	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordsBucketName))
		if v := bucket.Get([]byte(id)); v != nil {
			// Values are only valid for the life of the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, &InternalError{Op: "reading record", Err: err}
	}
	if data == nil {
		return nil, &NotFoundError{ID: id}
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &InternalError{Op: "unmarshaling record", Err: err}
	}
	return &record, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
