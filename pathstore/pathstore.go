/*
Package pathstore persists authored paths in a SQL database.

Sample positions and path points are stored as WKT LINESTRING Z text,
rotations and line transforms as JSON. The default backend is SQLite.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package pathstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/schuko/tracing"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tracer writes to trace with key 'pathstore'
func tracer() tracing.Trace {
	return tracing.Select("pathstore")
}

var (
	// ErrNotFound is returned for unknown path IDs.
	ErrNotFound = errors.New("path not found")
	// ErrCorrupt is returned for records which cannot be decoded.
	ErrCorrupt = errors.New("corrupt path record")
)

// Record is the database row of a path.
type Record struct {
	ID         uint      `gorm:"primarykey"`
	CreatedAt  time.Time
	Name       string `gorm:"index"`
	IsLoop     bool
	Length     float64
	Start      datatypes.JSON // line transform
	Finish     datatypes.JSON // line transform, null for loops
	Samples    string         // WKT LINESTRING Z of spline sample positions
	Rotations  datatypes.JSON // spline sample rotations
	PathPoints string         // WKT LINESTRING Z
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "paths"
}

// Summary describes a stored path without its geometry.
type Summary struct {
	ID        uint
	Name      string
	IsLoop    bool
	Length    float64
	CreatedAt time.Time
}

// Store is a path store.
type Store struct {
	db *gorm.DB
}

// Open opens a SQLite path store. An empty dsn opens a private in-memory
// database.
func Open(dsn string) (*Store, error) {
	memory := dsn == ""
	if memory {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening path store %q: %w", dsn, err)
	}
	if memory { // every connection would see its own database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db)
}

// New creates a store on an open database and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating path store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save stores a path under name and returns its ID.
func (s *Store) Save(ctx context.Context, name string, path pp.PathData) (uint, error) {
	rec, err := encode(name, path)
	if err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("saving path %q: %w", name, err)
	}
	tracer().Infof("saved path %q as #%d", name, rec.ID)
	return rec.ID, nil
}

// Load reads the path with the given ID.
func (s *Store) Load(ctx context.Context, id uint) (pp.PathData, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pp.PathData{}, fmt.Errorf("%w: #%d", ErrNotFound, id)
	} else if err != nil {
		return pp.PathData{}, fmt.Errorf("loading path #%d: %w", id, err)
	}
	return decode(rec)
}

// List returns all stored paths, oldest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	var recs []Record
	err := s.db.WithContext(ctx).
		Select("id", "name", "is_loop", "length", "created_at").
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing paths: %w", err)
	}
	list := make([]Summary, len(recs))
	for i, r := range recs {
		list[i] = Summary{ID: r.ID, Name: r.Name, IsLoop: r.IsLoop, Length: r.Length, CreatedAt: r.CreatedAt}
	}
	return list, nil
}

// Delete removes the path with the given ID.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Record{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting path #%d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: #%d", ErrNotFound, id)
	}
	return nil
}
