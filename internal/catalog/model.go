// File path: internal/catalog/model.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
)

// outerScope names the nodes/edges rows belonging to the outer graph; every
// other scope value is a program id owning an inner graph. Program ids never
// collide with it because they never contain the separator.
const outerScope = "outer:"

// SaveModel replaces the catalog contents with the given model. Node and
// edge positions preserve insertion order so a reloaded model produces
// identical traversal orders.
func (s *Store) SaveModel(ctx context.Context, model *graph.Model) error {
	if s == nil || s.db == nil {
		return errors.New("catalog store not initialised")
	}
	if model == nil || model.Outer == nil {
		return errors.New("model required")
	}
	logger := common.Logger()
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"nodes", "edges", "removed_edges", "dead_blocks", "issues"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := insertGraph(ctx, tx, outerScope, model.Outer); err != nil {
			return err
		}
		programs := make([]string, 0, len(model.Inner))
		for id := range model.Inner {
			programs = append(programs, id)
		}
		sort.Strings(programs)
		for _, id := range programs {
			if err := insertGraph(ctx, tx, id, model.Inner[id]); err != nil {
				return err
			}
		}
		for _, id := range programs {
			for i, e := range model.Removed[id] {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO removed_edges (program, position, src, dst, edge_type) VALUES (?, ?, ?, ?, ?)`,
					id, i, e.From, e.To, string(e.Type)); err != nil {
					return fmt.Errorf("insert removed edge: %w", err)
				}
			}
			for i, blockID := range model.Dead[id] {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO dead_blocks (program, position, block_id) VALUES (?, ?, ?)`,
					id, i, blockID); err != nil {
					return fmt.Errorf("insert dead block: %w", err)
				}
			}
		}
		for i, issue := range model.Issues {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO issues (position, kind, program, detail) VALUES (?, ?, ?, ?)`,
				i, string(issue.Kind), issue.Program, issue.Detail); err != nil {
				return fmt.Errorf("insert issue: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("catalog: model saved", "outer_nodes", model.Outer.NodeCount(), "inner_graphs", len(model.Inner))
	return nil
}

// LoadModel reconstructs the most recently saved model, or sql.ErrNoRows
// when the catalog is empty.
func (s *Store) LoadModel(ctx context.Context) (*graph.Model, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("catalog store not initialised")
	}
	var scopes []string
	if err := s.db.SelectContext(ctx, &scopes, `SELECT DISTINCT scope FROM nodes ORDER BY scope`); err != nil {
		return nil, fmt.Errorf("load scopes: %w", err)
	}
	if len(scopes) == 0 {
		return nil, sql.ErrNoRows
	}

	model := &graph.Model{
		Inner:   make(map[string]*graph.Graph),
		Dead:    make(map[string][]string),
		Removed: make(map[string][]graph.Edge),
	}
	hasOuter := false
	for _, scope := range scopes {
		g, err := s.loadGraph(ctx, scope)
		if err != nil {
			return nil, err
		}
		if scope == outerScope {
			model.Outer = g
			hasOuter = true
		} else {
			model.Inner[scope] = g
		}
	}
	if !hasOuter {
		return nil, errors.New("catalog missing outer graph")
	}

	type removedRow struct {
		Program string `db:"program"`
		Src     string `db:"src"`
		Dst     string `db:"dst"`
		Type    string `db:"edge_type"`
	}
	var removed []removedRow
	if err := s.db.SelectContext(ctx, &removed,
		`SELECT program, src, dst, edge_type FROM removed_edges ORDER BY program, position`); err != nil {
		return nil, fmt.Errorf("load removed edges: %w", err)
	}
	for _, row := range removed {
		model.Removed[row.Program] = append(model.Removed[row.Program],
			graph.Edge{From: row.Src, To: row.Dst, Type: graph.EdgeType(row.Type)})
	}

	type deadRow struct {
		Program string `db:"program"`
		BlockID string `db:"block_id"`
	}
	var dead []deadRow
	if err := s.db.SelectContext(ctx, &dead,
		`SELECT program, block_id FROM dead_blocks ORDER BY program, position`); err != nil {
		return nil, fmt.Errorf("load dead blocks: %w", err)
	}
	for _, row := range dead {
		model.Dead[row.Program] = append(model.Dead[row.Program], row.BlockID)
	}

	type issueRow struct {
		Kind    string         `db:"kind"`
		Program sql.NullString `db:"program"`
		Detail  string         `db:"detail"`
	}
	var issues []issueRow
	if err := s.db.SelectContext(ctx, &issues,
		`SELECT kind, program, detail FROM issues ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}
	for _, row := range issues {
		model.Issues = append(model.Issues, graph.Issue{
			Kind:    graph.IssueKind(row.Kind),
			Program: row.Program.String,
			Detail:  row.Detail,
		})
	}
	common.Logger().Info("catalog: model loaded", "inner_graphs", len(model.Inner))
	return model, nil
}

func insertGraph(ctx context.Context, tx *sqlx.Tx, scope string, g *graph.Graph) error {
	for i, n := range g.Nodes() {
		attrs, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshal node %s: %w", n.ID(), err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (scope, position, node_id, kind, attrs) VALUES (?, ?, ?, ?, ?)`,
			scope, i, n.ID(), string(n.Kind()), string(attrs)); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID(), err)
		}
	}
	for i, e := range g.Edges() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (scope, position, src, dst, edge_type) VALUES (?, ?, ?, ?, ?)`,
			scope, i, e.From, e.To, string(e.Type)); err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return nil
}

func (s *Store) loadGraph(ctx context.Context, scope string) (*graph.Graph, error) {
	type nodeRow struct {
		NodeID string `db:"node_id"`
		Kind   string `db:"kind"`
		Attrs  string `db:"attrs"`
	}
	var nodes []nodeRow
	if err := s.db.SelectContext(ctx, &nodes,
		`SELECT node_id, kind, attrs FROM nodes WHERE scope = ? ORDER BY position`, scope); err != nil {
		return nil, fmt.Errorf("load nodes for %s: %w", scope, err)
	}
	g := graph.New()
	for _, row := range nodes {
		n, err := decodeNode(graph.NodeKind(row.Kind), []byte(row.Attrs))
		if err != nil {
			return nil, fmt.Errorf("decode node %s: %w", row.NodeID, err)
		}
		g.AddNode(n)
	}

	type edgeRow struct {
		Src  string `db:"src"`
		Dst  string `db:"dst"`
		Type string `db:"edge_type"`
	}
	var edges []edgeRow
	if err := s.db.SelectContext(ctx, &edges,
		`SELECT src, dst, edge_type FROM edges WHERE scope = ? ORDER BY position`, scope); err != nil {
		return nil, fmt.Errorf("load edges for %s: %w", scope, err)
	}
	for _, row := range edges {
		g.AddEdge(row.Src, row.Dst, graph.EdgeType(row.Type))
	}
	return g, nil
}

func decodeNode(kind graph.NodeKind, attrs []byte) (graph.Node, error) {
	switch kind {
	case graph.KindProgram:
		var n graph.ProgramNode
		if err := json.Unmarshal(attrs, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case graph.KindJob:
		var n graph.JobNode
		if err := json.Unmarshal(attrs, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case graph.KindStep:
		var n graph.StepNode
		if err := json.Unmarshal(attrs, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case graph.KindBlock:
		var n graph.BlockNode
		if err := json.Unmarshal(attrs, &n); err != nil {
			return nil, err
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
}
