package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatolykoptev/go_ytnet/internal/engine/network"
)

const ageSetup = `LOAD 'age'; SET search_path TO ag_catalog, "$user", public`

var graphNameRE = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// GraphDB writes networks into an Apache AGE graph.
type GraphDB struct {
	pool  *pgxpool.Pool
	graph string
}

// SaveStats reports what SaveNetwork wrote.
type SaveStats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// ConnectGraphDB creates a pgx pool and makes sure the named graph exists.
func ConnectGraphDB(ctx context.Context, databaseURL, graph string) (*GraphDB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if !graphNameRE.MatchString(graph) {
		return nil, fmt.Errorf("invalid AGE graph name %q", graph)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db := &GraphDB{pool: pool, graph: graph}
	if err := db.ensureGraph(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("age graph store connected",
		slog.String("addr", config.ConnConfig.Host), slog.String("graph", graph))
	return db, nil
}

// Close closes the pool.
func (db *GraphDB) Close() { db.pool.Close() }

func (db *GraphDB) ensureGraph(ctx context.Context) error {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, ageSetup); err != nil {
		return fmt.Errorf("age setup: %w", err)
	}
	var n int
	if err := conn.QueryRow(ctx, `SELECT count(*) FROM ag_catalog.ag_graph WHERE name = $1`, db.graph).Scan(&n); err != nil {
		return fmt.Errorf("lookup graph %s: %w", db.graph, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := conn.Exec(ctx, `SELECT ag_catalog.create_graph($1::name)`, db.graph); err != nil {
		return fmt.Errorf("create graph %s: %w", db.graph, err)
	}
	slog.Info("age graph created", slog.String("graph", db.graph))
	return nil
}

// SaveNetwork merges all nodes and edges of g in one transaction.
// Edges are keyed by comment id, so saving the same network twice is a no-op.
func (db *GraphDB) SaveNetwork(ctx context.Context, g *network.Graph) (SaveStats, error) {
	var st SaveStats
	if g == nil {
		return st, network.ErrNoConversation
	}
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return st, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, ageSetup); err != nil {
		return st, fmt.Errorf("age setup: %w", err)
	}

	kinds := make(map[string]network.NodeKind, len(g.Nodes))
	for _, n := range g.Nodes {
		kinds[n.ID] = n.Kind
		if _, err := tx.Exec(ctx, mergeNodeCypher(db.graph, n)); err != nil {
			return st, fmt.Errorf("merge node %s: %w", n.ID, err)
		}
		st.Nodes++
	}
	for _, e := range g.Edges {
		if _, err := tx.Exec(ctx, mergeEdgeCypher(db.graph, e, kinds[e.From], kinds[e.To])); err != nil {
			return st, fmt.Errorf("merge edge %s: %w", e.Label, err)
		}
		st.Edges++
	}
	if err := tx.Commit(ctx); err != nil {
		return SaveStats{}, fmt.Errorf("commit: %w", err)
	}
	return st, nil
}

// ClearNetwork removes all nodes and edges from the graph.
func (db *GraphDB) ClearNetwork(ctx context.Context) error {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, ageSetup); err != nil {
		return fmt.Errorf("age setup: %w", err)
	}
	_, err = conn.Exec(ctx, clearCypher(db.graph))
	return err
}

// --- Cypher builders ---

func nodeLabel(k network.NodeKind) string {
	switch k {
	case network.NodeVideo:
		return "Video"
	case network.NodeComment:
		return "Comment"
	case network.NodeUnattributed:
		return "Unattributed"
	default:
		return "Actor"
	}
}

func edgeLabel(k network.EdgeKind) string {
	return strings.ToUpper(strings.ReplaceAll(string(k), "-", "_"))
}

func mergeNodeCypher(graph string, n network.Node) string {
	set := ""
	if n.Author != "" {
		set = fmt.Sprintf("SET n.author = '%s'", escapeCypher(n.Author))
	}
	return fmt.Sprintf(`SELECT * FROM ag_catalog.cypher('%s', $$
			MERGE (n:%s {id: '%s'})
			%s
			RETURN n
		$$) AS (n ag_catalog.agtype)`,
		graph, nodeLabel(n.Kind), escapeCypher(n.ID), set)
}

func mergeEdgeCypher(graph string, e network.Edge, fromKind, toKind network.NodeKind) string {
	return fmt.Sprintf(`SELECT * FROM ag_catalog.cypher('%s', $$
			MATCH (a:%s {id: '%s'}), (b:%s {id: '%s'})
			MERGE (a)-[r:%s {comment_id: '%s'}]->(b)
			SET r.source_id = '%s', r.published = '%s'
		$$) AS (result ag_catalog.agtype)`,
		graph,
		nodeLabel(fromKind), escapeCypher(e.From),
		nodeLabel(toKind), escapeCypher(e.To),
		edgeLabel(e.Kind), escapeCypher(e.Label),
		escapeCypher(e.SourceID), escapeCypher(e.PublishTime))
}

func clearCypher(graph string) string {
	return fmt.Sprintf(`SELECT * FROM ag_catalog.cypher('%s', $$
		MATCH (n) DETACH DELETE n
	$$) AS (result ag_catalog.agtype)`, graph)
}

// escapeCypher escapes a string for safe use in a single-quoted Cypher literal.
func escapeCypher(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "$", `\u0024`) // would close the $$ quoting
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
