package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/featuregraph/helper"
	"github.com/siherrmann/featuregraph/model"
	loadSql "github.com/siherrmann/featuregraph/sql"
)

// ErrGraphNotFound is returned when no snapshot matches a lookup.
var ErrGraphNotFound = errors.New("graph not found")

// GraphsDBHandlerFunctions defines the interface for graph snapshot database operations.
type GraphsDBHandlerFunctions interface {
	InsertGraph(ctx context.Context, snapshot *model.GraphSnapshot) error
	SelectGraph(ctx context.Context, rid uuid.UUID) (*model.GraphSnapshot, error)
	SelectLatestGraph(ctx context.Context, project string, direction model.LayoutDirection) (*model.GraphSnapshot, error)
	SelectGraphNodesByType(ctx context.Context, rid uuid.UUID, objectType model.ObjectType) ([]*model.GraphNode, error)
	DeleteGraph(ctx context.Context, rid uuid.UUID) error
}

// GraphsDBHandler stores laid-out graphs with their nodes and edges.
type GraphsDBHandler struct {
	db *helper.Database
}

// NewGraphsDBHandler creates a new graphs database handler.
// It loads the graph SQL functions and creates the tables.
// If force is true, it will reload the SQL functions even if they already exist.
func NewGraphsDBHandler(db *helper.Database, force bool) (*GraphsDBHandler, error) {
	if !db.Valid() {
		return nil, helper.NewError("database connection validation", helper.ErrNilDatabase)
	}

	graphsDbHandler := &GraphsDBHandler{
		db: db,
	}

	err := loadSql.LoadGraphsSql(graphsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load graphs sql", err)
	}

	err = graphsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized GraphsDBHandler")

	return graphsDbHandler, nil
}

// CreateTable creates the graphs, graph_nodes and graph_edges tables
// with their indexes. Existing tables are kept.
func (h *GraphsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_graphs();`)
	if err != nil {
		return helper.NewError("init graphs", err)
	}

	h.db.Logger.Info("Checked/created tables graphs, graph_nodes and graph_edges")

	return nil
}

// InsertGraph stores the snapshot with all nodes and edges in one transaction.
// ID, RID and CreatedAt are set from the inserted row.
func (h *GraphsDBHandler) InsertGraph(ctx context.Context, snapshot *model.GraphSnapshot) error {
	if snapshot == nil || snapshot.Graph == nil {
		return helper.NewError("insert graph", fmt.Errorf("snapshot has no graph"))
	}

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(
		ctx,
		`SELECT * FROM insert_graph($1, $2, $3)`,
		snapshot.Project,
		string(snapshot.Direction),
		snapshot.Metadata,
	)
	stored := &model.GraphSnapshot{}
	err = scanSnapshot(row, stored)
	if err != nil {
		return helper.NewError("scan", err)
	}

	for i, node := range snapshot.Graph.Nodes {
		metadata, err := json.Marshal(node.Metadata)
		if err != nil {
			return helper.NewError("marshal node metadata", err)
		}

		_, err = tx.ExecContext(
			ctx,
			`SELECT insert_graph_node($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			stored.ID,
			i,
			node.ID,
			string(node.Type),
			node.Label,
			node.Color,
			node.Position.X,
			node.Position.Y,
			metadata,
		)
		if err != nil {
			return helper.NewError(fmt.Sprintf("insert node %s", node.ID), err)
		}
	}

	for i, edge := range snapshot.Graph.Edges {
		_, err = tx.ExecContext(
			ctx,
			`SELECT insert_graph_edge($1, $2, $3, $4, $5, $6)`,
			stored.ID,
			i,
			edge.ID,
			edge.Source,
			edge.Target,
			string(edge.Label),
		)
		if err != nil {
			return helper.NewError(fmt.Sprintf("insert edge %s", edge.ID), err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit", err)
	}

	snapshot.ID = stored.ID
	snapshot.RID = stored.RID
	snapshot.Project = stored.Project
	snapshot.Direction = stored.Direction
	snapshot.Metadata = stored.Metadata
	snapshot.CreatedAt = stored.CreatedAt

	h.db.Logger.Debug(
		"Inserted graph",
		slog.String("rid", snapshot.RID.String()),
		slog.Int("nodes", len(snapshot.Graph.Nodes)),
		slog.Int("edges", len(snapshot.Graph.Edges)),
	)

	return nil
}

// SelectGraph retrieves a snapshot with its nodes and edges by RID.
func (h *GraphsDBHandler) SelectGraph(ctx context.Context, rid uuid.UUID) (*model.GraphSnapshot, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_graph($1)`,
		rid,
	)

	return h.selectSnapshot(ctx, row)
}

// SelectLatestGraph retrieves the newest snapshot stored for a project and direction.
func (h *GraphsDBHandler) SelectLatestGraph(ctx context.Context, project string, direction model.LayoutDirection) (*model.GraphSnapshot, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_latest_graph($1, $2)`,
		project,
		string(direction),
	)

	return h.selectSnapshot(ctx, row)
}

// SelectGraphNodesByType retrieves the nodes of one object type of a snapshot.
func (h *GraphsDBHandler) SelectGraphNodesByType(ctx context.Context, rid uuid.UUID, objectType model.ObjectType) ([]*model.GraphNode, error) {
	snapshot := &model.GraphSnapshot{}
	err := scanSnapshot(h.db.Instance.QueryRowContext(ctx, `SELECT * FROM select_graph($1)`, rid), snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("select graph", ErrGraphNotFound)
	} else if err != nil {
		return nil, helper.NewError("scan", err)
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_graph_nodes_by_type($1, $2)`,
		snapshot.ID,
		string(objectType),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}

	return scanNodes(rows)
}

// DeleteGraph removes a snapshot. Nodes and edges are removed by cascade.
func (h *GraphsDBHandler) DeleteGraph(ctx context.Context, rid uuid.UUID) error {
	var deleted int
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT delete_graph($1)`,
		rid,
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("delete", err)
	}
	if deleted == 0 {
		return helper.NewError("delete", ErrGraphNotFound)
	}

	h.db.Logger.Debug("Deleted graph", slog.String("rid", rid.String()))

	return nil
}

func (h *GraphsDBHandler) selectSnapshot(ctx context.Context, row *sql.Row) (*model.GraphSnapshot, error) {
	snapshot := &model.GraphSnapshot{}
	err := scanSnapshot(row, snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("select graph", ErrGraphNotFound)
	} else if err != nil {
		return nil, helper.NewError("scan", err)
	}

	nodeRows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_graph_nodes($1)`, snapshot.ID)
	if err != nil {
		return nil, helper.NewError("query nodes", err)
	}
	nodes, err := scanNodes(nodeRows)
	if err != nil {
		return nil, err
	}

	edgeRows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_graph_edges($1)`, snapshot.ID)
	if err != nil {
		return nil, helper.NewError("query edges", err)
	}
	edges, err := scanEdges(edgeRows)
	if err != nil {
		return nil, err
	}

	snapshot.Graph = &model.Graph{Nodes: nodes, Edges: edges}

	return snapshot, nil
}

func scanSnapshot(row *sql.Row, snapshot *model.GraphSnapshot) error {
	var direction string
	err := row.Scan(
		&snapshot.ID,
		&snapshot.RID,
		&snapshot.Project,
		&direction,
		&snapshot.Metadata,
		&snapshot.CreatedAt,
	)
	if err != nil {
		return err
	}
	snapshot.Direction = model.ParseLayoutDirection(direction)
	return nil
}

func scanNodes(rows *sql.Rows) ([]*model.GraphNode, error) {
	defer rows.Close()

	nodes := []*model.GraphNode{}
	for rows.Next() {
		var (
			node       model.GraphNode
			objectType string
			metadata   []byte
		)

		err := rows.Scan(
			&node.ID,
			&objectType,
			&node.Label,
			&node.Color,
			&node.Position.X,
			&node.Position.Y,
			&metadata,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		node.Type = model.ObjectType(objectType)
		node.Kind = node.Type.NodeKind()
		node.Metadata, err = model.DecodeNodeMetadata(node.Type, metadata)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("decode metadata of %s", node.ID), err)
		}

		nodes = append(nodes, &node)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

func scanEdges(rows *sql.Rows) ([]*model.GraphEdge, error) {
	defer rows.Close()

	edges := []*model.GraphEdge{}
	for rows.Next() {
		var (
			edge  model.GraphEdge
			label string
		)

		err := rows.Scan(
			&edge.ID,
			&edge.Source,
			&edge.Target,
			&label,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		edge.Label = model.RelationshipKind(label)

		edges = append(edges, &edge)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}
