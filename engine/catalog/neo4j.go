package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/repo"
)

// CypherResult is the minimal read interface over a query result.
type CypherResult interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// CypherSession is the minimal session interface the store needs.
type CypherSession interface {
	Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error)
	Close(ctx context.Context) error
}

// SessionOpener opens a session per operation. The driver-backed opener is the
// production implementation; tests substitute their own.
type SessionOpener interface {
	OpenSession(ctx context.Context) CypherSession
}

// Store is the Neo4j-backed catalog. Vehicles are (:Vehicle) nodes; listings
// are (:Listing)-[:FOR_VEHICLE]-> relationships counted at query time.
type Store struct {
	opener   SessionOpener
	vehicles *repo.Neo4jRepo[domain.Vehicle, string]
}

// Compile-time interface check.
var _ Catalog = (*Store)(nil)

// New creates a Store on a Neo4j driver.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{
		opener:   &driverOpener{driver: driver},
		vehicles: newVehicleRepo(driver),
	}
}

// NewWithOpener creates a Store on a custom session opener. Used by tests;
// repository-backed lookups fall back to direct Cypher.
func NewWithOpener(opener SessionOpener) *Store {
	return &Store{opener: opener}
}

// driverOpener opens real driver sessions.
type driverOpener struct {
	driver neo4j.DriverWithContext
}

func (o *driverOpener) OpenSession(ctx context.Context) CypherSession {
	return &driverSession{sess: o.driver.NewSession(ctx, neo4j.SessionConfig{})}
}

type driverSession struct {
	sess neo4j.SessionWithContext
}

func (s *driverSession) Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error) {
	return s.sess.Run(ctx, cypher, params)
}

func (s *driverSession) Close(ctx context.Context) error {
	return s.sess.Close(ctx)
}

// DistinctValues returns the current vocabulary of a facet, optionally narrowed
// by predicates on other facets. Always reads live, so the vocabulary can never
// contain values already removed from the catalog.
func (s *Store) DistinctValues(ctx context.Context, facet domain.Facet, filters []Predicate) ([]string, error) {
	if !domain.ValidFacets[facet] {
		return nil, fmt.Errorf("catalog: %w: %q", domain.ErrInvalidFacet, facet)
	}
	if err := validatePredicates(filters); err != nil {
		return nil, err
	}

	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	filterCypher, params := compilePredicates(filters)
	cypher := fmt.Sprintf(
		`MATCH (v:Vehicle)
		 WHERE v.%[1]s IS NOT NULL AND v.%[1]s <> ''%[2]s
		 RETURN DISTINCT v.%[1]s AS value
		 ORDER BY value`, facet, filterCypher)

	result, err := sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("catalog: distinct %s: %w", facet, err)
	}

	var values []string
	for result.Next(ctx) {
		if v, ok := result.Record().Get("value"); ok {
			if str, ok := v.(string); ok {
				values = append(values, str)
			}
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("catalog: distinct %s: %w", facet, err)
	}
	return values, nil
}

// FindBest returns all vehicles satisfying the conjunction of predicates, each
// annotated with its listing count. Vehicles with zero listings are valid
// matches, just less popular.
func (s *Store) FindBest(ctx context.Context, preds []Predicate) ([]RankedVehicle, error) {
	if err := validatePredicates(preds); err != nil {
		return nil, err
	}

	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	filterCypher, params := compilePredicates(preds)
	cypher := fmt.Sprintf(
		`MATCH (v:Vehicle)
		 WHERE true%s
		 OPTIONAL MATCH (l:Listing)-[:FOR_VEHICLE]->(v)
		 RETURN v, count(l) AS listings
		 ORDER BY listings DESC`, filterCypher)

	result, err := sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("catalog: find best: %w", err)
	}

	var ranked []RankedVehicle
	for result.Next(ctx) {
		rec := result.Record()
		node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "v")
		if err != nil {
			return nil, fmt.Errorf("catalog: find best: %w", err)
		}
		rv := RankedVehicle{Vehicle: vehicleFromProps(node.Props)}
		if c, ok := rec.Get("listings"); ok {
			if n, ok := c.(int64); ok {
				rv.ListingCount = n
			}
		}
		ranked = append(ranked, rv)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("catalog: find best: %w", err)
	}
	return ranked, nil
}

// GetVehicle returns a vehicle by ID.
func (s *Store) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	if s.vehicles != nil {
		return s.vehicles.Get(ctx, id)
	}

	// Opener fallback for stores constructed without a driver.
	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, `MATCH (v:Vehicle {id: $id}) RETURN v`, map[string]any{"id": id})
	if err != nil {
		return domain.Vehicle{}, err
	}
	if !result.Next(ctx) {
		return domain.Vehicle{}, fmt.Errorf("catalog: vehicle %s not found", id)
	}
	node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "v")
	if err != nil {
		return domain.Vehicle{}, err
	}
	return vehicleFromProps(node.Props), nil
}

// ListVehicles returns a page of vehicles.
func (s *Store) ListVehicles(ctx context.Context, offset, limit int) ([]domain.Vehicle, error) {
	if s.vehicles == nil {
		return nil, fmt.Errorf("catalog: store has no vehicle repository")
	}
	return s.vehicles.List(ctx, repo.ListOpts{Offset: offset, Limit: limit})
}

// SaveVehicle creates or updates a Vehicle node.
func (s *Store) SaveVehicle(ctx context.Context, v domain.Vehicle) error {
	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MERGE (v:Vehicle {id: $id}) SET v += $props`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":    v.ID,
		"props": vehicleToMap(v),
	})
	return err
}

// SaveListing creates or updates a Listing node and links it to its vehicle.
func (s *Store) SaveListing(ctx context.Context, l domain.Listing) error {
	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MERGE (n:Listing {id: $id}) SET n.source = $source
	           WITH n
	           MATCH (v:Vehicle {id: $vehicleID})
	           MERGE (n)-[:FOR_VEHICLE]->(v)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":        l.ID,
		"source":    l.Source,
		"vehicleID": l.VehicleID,
	})
	return err
}

// compilePredicates renders predicates as a Cypher conjunction with bound
// parameters. Facet names come from the validated enum; values are always
// parameters, all comparisons lowercased on both sides.
func compilePredicates(preds []Predicate) (string, map[string]any) {
	params := make(map[string]any, len(preds))
	var b strings.Builder

	for i, p := range preds {
		key := fmt.Sprintf("p%d", i)
		switch p.Op {
		case OpEq:
			fmt.Fprintf(&b, " AND toLower(v.%s) = $%s", p.Facet, key)
			params[key] = strings.ToLower(p.Values[0])
		case OpContains:
			fmt.Fprintf(&b, " AND toLower(v.%s) CONTAINS $%s", p.Facet, key)
			params[key] = strings.ToLower(p.Values[0])
		case OpIn:
			fmt.Fprintf(&b, " AND toLower(v.%s) IN $%s", p.Facet, key)
			lowered := make([]string, len(p.Values))
			for j, v := range p.Values {
				lowered[j] = strings.ToLower(v)
			}
			params[key] = lowered
		}
	}
	return b.String(), params
}
