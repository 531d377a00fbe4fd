package neo4j

import (
	"context"
	"fmt"
	"sort"

	"github.com/efebarandurmaz/pronet/internal/graph"
	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/observability"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const backend = "neo4j"

const (
	clearQuery = "MATCH (p:Programmer) DETACH DELETE p"

	storeProgrammerQuery = "MERGE (p:Programmer {name: $name}) " +
		"SET p.position = $position, p.skills = $skills"

	storeRecommendationQuery = "MATCH (a:Programmer {name: $from}), (b:Programmer {name: $to}) " +
		"MERGE (a)-[r:RECOMMENDS]->(b) SET r.position = $position"

	loadQuery = "MATCH (p:Programmer) " +
		"OPTIONAL MATCH (p)-[r:RECOMMENDS]->(q:Programmer) " +
		"WITH p, r, q ORDER BY r.position " +
		"RETURN p.name AS name, p.position AS position, p.skills AS skills, " +
		"collect(q.name) AS recommendations " +
		"ORDER BY position"
)

// Neo4jRepository implements graph.Repository using Neo4j.
type Neo4jRepository struct {
	driver neo4j.DriverWithContext
}

// NewNeo4j creates a Neo4j-backed repository.
func NewNeo4j(ctx context.Context, uri, username, password string) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &Neo4jRepository{driver: driver}, nil
}

// StoreNetwork replaces the stored programmers with n. Declaration order is
// kept in a position property on nodes and relationships.
func (r *Neo4jRepository) StoreNetwork(ctx context.Context, n *network.Network) error {
	ctx, span := observability.StartStoreSpan(ctx, backend, "store_network")
	defer span.End()

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, clearQuery, nil); err != nil {
			return nil, fmt.Errorf("clear programmers: %w", err)
		}
		for _, p := range n.Programmers() {
			if _, err := tx.Run(ctx, storeProgrammerQuery, programmerParams(p)); err != nil {
				return nil, fmt.Errorf("store programmer %s: %w", p.Name(), err)
			}
		}
		for _, p := range n.Programmers() {
			for i, target := range p.Recommendations() {
				params := map[string]any{"from": p.Name(), "to": target, "position": i}
				if _, err := tx.Run(ctx, storeRecommendationQuery, params); err != nil {
					return nil, fmt.Errorf("store recommendation %s -> %s: %w", p.Name(), target, err)
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("store network: %w", err)
	}
	return nil
}

// LoadNetwork reads every stored programmer back, in stored order, and
// validates the result.
func (r *Neo4jRepository) LoadNetwork(ctx context.Context) (*network.Network, error) {
	ctx, span := observability.StartStoreSpan(ctx, backend, "load_network")
	defer span.End()

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, loadQuery, nil)
		if err != nil {
			return nil, err
		}
		var rows []row
		for records.Next(ctx) {
			rec := records.Record()
			rows = append(rows, row{
				name:            valueOf(rec, "name"),
				position:        valueOf(rec, "position"),
				skills:          valueOf(rec, "skills"),
				recommendations: valueOf(rec, "recommendations"),
			})
		}
		if err := records.Err(); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("load network: %w", err)
	}

	specs, err := specsFromRows(result.([]row))
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	n, err := network.New(specs)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("stored network is invalid: %w", err)
	}
	observability.RecordLoadResult(span, n.Len(), n.EdgeCount())
	return n, nil
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func programmerParams(p *network.Programmer) map[string]any {
	skills := make([]any, 0, len(p.Skills()))
	for _, s := range p.Skills() {
		skills = append(skills, s)
	}
	return map[string]any{
		"name":     p.Name(),
		"position": p.Index(),
		"skills":   skills,
	}
}

// row is one programmer as returned by loadQuery, before type checks.
type row struct {
	name            any
	position        any
	skills          any
	recommendations any
}

func valueOf(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

// specsFromRows converts driver values into loader specs, ordered by position.
func specsFromRows(rows []row) ([]network.ProgrammerSpec, error) {
	type positioned struct {
		pos  int64
		spec network.ProgrammerSpec
	}
	items := make([]positioned, 0, len(rows))
	for i, r := range rows {
		name, ok := r.name.(string)
		if !ok {
			return nil, fmt.Errorf("row %d: programmer name is %T, want string", i, r.name)
		}
		pos, ok := r.position.(int64)
		if !ok {
			pos = int64(i)
		}
		skills, err := stringList(r.skills)
		if err != nil {
			return nil, fmt.Errorf("programmer %s skills: %w", name, err)
		}
		recs, err := stringList(r.recommendations)
		if err != nil {
			return nil, fmt.Errorf("programmer %s recommendations: %w", name, err)
		}
		items = append(items, positioned{pos: pos, spec: network.ProgrammerSpec{
			Name:            name,
			Skills:          skills,
			Recommendations: recs,
		}})
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].pos < items[b].pos })

	specs := make([]network.ProgrammerSpec, 0, len(items))
	for _, it := range items {
		specs = append(specs, it.spec)
	}
	return specs, nil
}

func stringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("value is %T, want list", v)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("list item is %T, want string", item)
		}
		out = append(out, s)
	}
	return out, nil
}

var _ graph.Repository = (*Neo4jRepository)(nil)
