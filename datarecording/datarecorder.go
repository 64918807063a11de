// Package datarecording records simulation results into a SQLite database.
// Every table is described by a flat Go struct whose exported fields become
// the columns.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"
	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns follow the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables created.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush()

	// Close flushes and closes the database.
	Close() error
}

const defaultBatchSize = 100000

// New creates a DataRecorder that writes to path.sqlite3. A random name is
// used if path is empty. The recorder is flushed when the program exits
// through atexit.
func New(path string) DataRecorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a new DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	return &sqliteWriter{
		DB:        db,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}
}

type table struct {
	structType reflect.Type
	columns    []string
	entries    []any
}

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	tableOrder []string
	batchSize  int
	entryCount int
	closed     bool
}

func (t *sqliteWriter) init() {
	if t.dbName == "" {
		t.dbName = "dmcachesim_" + xid.New().String()
	}

	filename := t.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// columnsOf returns the exported field names of a flat struct.
func columnsOf(sampleEntry any) ([]string, error) {
	if !structs.IsStruct(sampleEntry) {
		return nil, fmt.Errorf("entry of type %T is not a struct", sampleEntry)
	}

	for _, field := range structs.Fields(sampleEntry) {
		if !isAllowedKind(field.Kind()) {
			return nil, fmt.Errorf(
				"field %s of kind %s cannot be recorded",
				field.Name(), field.Kind())
		}
	}

	columns := structs.Names(sampleEntry)
	if len(columns) == 0 {
		return nil, fmt.Errorf("entry of type %T has no columns", sampleEntry)
	}

	return columns, nil
}

func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	columns, err := columnsOf(sampleEntry)
	if err != nil {
		panic(err)
	}

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + strings.Join(columns, ", \n\t") + "\n" + `);`
	t.mustExecute(createTableSQL)

	t.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		columns:    columns,
	}
	t.tableOrder = append(t.tableOrder, tableName)
}

func (t *sqliteWriter) InsertData(tableName string, entry any) {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		panic(fmt.Sprintf("entry of type %T does not match table %s",
			entry, tableName))
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.Flush()
	}
}

func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, len(t.tableOrder))
	copy(tables, t.tableOrder)

	return tables
}

func (t *sqliteWriter) Flush() {
	if t.entryCount == 0 || t.closed {
		return
	}

	t.mustExecute("BEGIN TRANSACTION")
	defer t.mustExecute("COMMIT TRANSACTION")

	for _, tableName := range t.tableOrder {
		table := t.tables[tableName]
		if len(table.entries) == 0 {
			continue
		}

		t.flushTable(tableName, table)
	}

	t.entryCount = 0
}

func (t *sqliteWriter) flushTable(tableName string, table *table) {
	stmt := t.prepareStatement(tableName, table)
	defer stmt.Close()

	for _, entry := range table.entries {
		_, err := stmt.Exec(structs.Values(entry)...)
		if err != nil {
			panic(err)
		}
	}

	table.entries = nil
}

// Close flushes the buffered entries and closes the database.
func (t *sqliteWriter) Close() error {
	if t.closed {
		return nil
	}

	t.Flush()
	t.closed = true

	return t.DB.Close()
}

func (t *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := t.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (t *sqliteWriter) prepareStatement(
	tableName string,
	table *table,
) *sql.Stmt {
	placeholders := make([]string, len(table.columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" (" + strings.Join(table.columns, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"

	stmt, err := t.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}
