//go:build cgo

package chartstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dusk-indust/chartaxis/internal/chart"
	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store on KuzuDB. A chart is a Chart node; its columns
// are ChartColumn nodes; every axis slot is an ASSIGNED edge from the chart to a
// column carrying the axis block, the zone field and the position.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	mu   sync.Mutex
	db   *kuzu.Database
	conn *kuzu.Connection
}

var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzuStore(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a KuzuDB database at
// dbPath. KuzuDB creates the leaf directory itself.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzuStore(dbPath)
}

func openKuzuStore(path string) (*KuzuStore, error) {
	db, err := kuzu.OpenDatabase(path, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

func openKuzu(path string) (Store, error) {
	return NewKuzuFileStore(path)
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// Node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Chart(
		id STRING,
		chart_type STRING,
		revision INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS ChartColumn(
		uid STRING,
		chart_id STRING,
		name STRING,
		position INT64,
		column_type STRING,
		style STRING,
		formatted BOOLEAN,
		PRIMARY KEY(uid)
	)`,
	`CREATE REL TABLE IF NOT EXISTS ASSIGNED(
		FROM Chart TO ChartColumn,
		axis STRING,
		zone STRING,
		position INT64
	)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Axis layout ----------

// axisBlocks names each stored axis block by the chart type that selects it.
var axisBlocks = []struct {
	name      string
	chartType chart.ChartType
}{
	{"barAndLine", chart.Bar},
	{"scatter", chart.Scatter},
	{"pie", chart.Pie},
	{"combo", chart.Combo},
}

func axisBlock(name string) (chart.ChartType, bool) {
	for _, b := range axisBlocks {
		if b.name == name {
			return b.chartType, true
		}
	}
	return "", false
}

type axisField struct {
	name  string
	items *[]string
}

func axisFields(a *chart.AxisConfig) []axisField {
	return []axisField{
		{"x", &a.X},
		{"y", &a.Y},
		{"y2", &a.Y2},
		{"category", &a.Category},
		{"size", &a.Size},
		{"tooltip", &a.Tooltip},
	}
}

func columnKey(chartID, name string) string {
	return chartID + "/" + name
}

// ---------- Write operations ----------

func (s *KuzuStore) Put(_ context.Context, cfg *chart.Config) (*chart.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rev int64 = 1
	rows, err := s.query("MATCH (c:Chart {id: $id}) RETURN c.revision", map[string]any{"id": cfg.ID})
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rev = int64(toInt(rows[0][0])) + 1
	}

	stored, err := prepare(cfg, rev)
	if err != nil {
		return nil, fmt.Errorf("kuzu: put %s: %w", cfg.ID, err)
	}

	if err := s.tx(func() error { return s.write(stored) }); err != nil {
		return nil, fmt.Errorf("kuzu: put %s: %w", cfg.ID, err)
	}
	return stored.Clone(), nil
}

// write replaces every node and edge of cfg.
func (s *KuzuStore) write(cfg *chart.Config) error {
	if err := s.deleteChart(cfg.ID); err != nil {
		return err
	}
	if err := s.exec(
		"CREATE (c:Chart {id: $id, chart_type: $type, revision: $rev})",
		map[string]any{"id": cfg.ID, "type": string(cfg.SelectedChartType), "rev": cfg.Revision},
	); err != nil {
		return err
	}

	for i, name := range cfg.Columns {
		f, formatted := cfg.ColumnLabelFormats[name]
		if err := s.exec(
			`CREATE (k:ChartColumn {
				uid: $key,
				chart_id: $chart,
				name: $name,
				position: $pos,
				column_type: $ct,
				style: $style,
				formatted: $formatted
			})`,
			map[string]any{
				"key":       columnKey(cfg.ID, name),
				"chart":     cfg.ID,
				"name":      name,
				"pos":       int64(i),
				"ct":        string(f.ColumnType),
				"style":     string(f.Style),
				"formatted": formatted,
			},
		); err != nil {
			return err
		}
	}

	for _, block := range axisBlocks {
		axis := cfg.Axis(block.chartType)
		for _, field := range axisFields(&axis) {
			for pos, col := range *field.items {
				if err := s.exec(
					`MATCH (c:Chart {id: $id}), (k:ChartColumn {uid: $key})
					CREATE (c)-[:ASSIGNED {axis: $axis, zone: $zone, position: $pos}]->(k)`,
					map[string]any{
						"id":   cfg.ID,
						"key":  columnKey(cfg.ID, col),
						"axis": block.name,
						"zone": field.name,
						"pos":  int64(pos),
					},
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *KuzuStore) deleteChart(id string) error {
	if err := s.exec("MATCH (k:ChartColumn {chart_id: $id}) DETACH DELETE k", map[string]any{"id": id}); err != nil {
		return err
	}
	return s.exec("MATCH (c:Chart {id: $id}) DETACH DELETE c", map[string]any{"id": id})
}

func (s *KuzuStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.query("MATCH (c:Chart {id: $id}) RETURN c.id", map[string]any{"id": id})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("kuzu: delete %s: %w", id, ErrNotFound)
	}
	return s.tx(func() error { return s.deleteChart(id) })
}

// ---------- Read operations ----------

func (s *KuzuStore) Get(_ context.Context, id string) (*chart.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params := map[string]any{"id": id}
	rows, err := s.query("MATCH (c:Chart {id: $id}) RETURN c.chart_type, c.revision", params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("kuzu: get %s: %w", id, ErrNotFound)
	}
	cfg := &chart.Config{
		ID:                id,
		SelectedChartType: chart.ChartType(toString(rows[0][0])),
		Revision:          int64(toInt(rows[0][1])),
		Columns:           []string{},
	}

	rows, err = s.query(
		`MATCH (k:ChartColumn {chart_id: $id})
		RETURN k.name, k.column_type, k.style, k.formatted
		ORDER BY k.position`, params)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		name := toString(r[0])
		cfg.Columns = append(cfg.Columns, name)
		if !toBool(r[3]) {
			continue
		}
		if cfg.ColumnLabelFormats == nil {
			cfg.ColumnLabelFormats = make(map[string]chart.ColumnLabelFormat)
		}
		cfg.ColumnLabelFormats[name] = chart.ColumnLabelFormat{
			ColumnType: chart.ColumnType(toString(r[1])),
			Style:      chart.ColumnStyle(toString(r[2])),
		}
	}

	rows, err = s.query(
		`MATCH (c:Chart {id: $id})-[a:ASSIGNED]->(k:ChartColumn)
		RETURN a.axis, a.zone, k.name
		ORDER BY a.axis, a.zone, a.position`, params)
	if err != nil {
		return nil, err
	}
	blocks := make(map[string]*chart.AxisConfig)
	for _, r := range rows {
		name := toString(r[0])
		a, ok := blocks[name]
		if !ok {
			a = &chart.AxisConfig{}
			blocks[name] = a
		}
		for _, field := range axisFields(a) {
			if field.name == toString(r[1]) {
				*field.items = append(*field.items, toString(r[2]))
			}
		}
	}
	for name, a := range blocks {
		t, ok := axisBlock(name)
		if !ok {
			continue
		}
		if err := cfg.SetAxis(t, *a); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (s *KuzuStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.query("MATCH (c:Chart) RETURN c.id ORDER BY c.id", nil)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, toString(r[0]))
	}
	return ids, nil
}

// ---------- Helpers ----------

// tx runs fn inside a write transaction, rolling back on error.
func (s *KuzuStore) tx(fn func() error) error {
	if err := s.exec("BEGIN TRANSACTION", nil); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if rbErr := s.exec("ROLLBACK", nil); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return s.exec("COMMIT", nil)
}

// exec runs a Cypher statement and discards the result. Statements without
// parameters skip the prepare step.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	if len(params) == 0 {
		res, err := s.conn.Query(cypher)
		if err != nil {
			return fmt.Errorf("kuzu: execute: %w", err)
		}
		res.Close()
		return nil
	}

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a Cypher statement and collects all result rows in column
// order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}
