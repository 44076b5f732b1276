// Package store is the optional persistence layer for the solver host: a
// Postgres-backed memo of constraint-signature to solution/counters, with
// singleflight collapsing concurrent identical requests into one solve.
// Adapted from internal/db/postgres.go's pool/schema/tx pattern.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/rawblock/sudoku-engine/pkg/models"
)

// SolveCache is a Postgres-backed memo of constraint-signature -> solve
// result, with an in-process singleflight group collapsing concurrent
// identical requests for the same signature into one underlying solve.
type SolveCache struct {
	pool  *pgxpool.Pool
	group singleflight.Group
}

// Connect initializes the connection pool to PostgreSQL using pgx.
func Connect(connStr string) (*SolveCache, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}
	log.Println("Successfully connected to PostgreSQL for solve cache")
	return &SolveCache{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (c *SolveCache) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// InitSchema loads and executes the schema.sql file.
func (c *SolveCache) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/store/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %v", err)
	}
	if _, err := c.pool.Exec(context.Background(), string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}
	log.Println("Solve cache schema initialized")
	return nil
}

// Signature is the stable cache key for a PuzzleSpec: the sha256 of its
// canonical JSON encoding (field order is fixed by the struct definition,
// so json.Marshal is already canonical here).
func Signature(spec models.PuzzleSpec) (string, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("marshaling spec for signature: %v", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Lookup returns a previously cached solution for signature, if any.
func (c *SolveCache) Lookup(ctx context.Context, signature string) (models.Solution, models.Counters, bool, bool) {
	var solBytes, counterBytes []byte
	var found bool
	row := c.pool.QueryRow(ctx,
		`SELECT solution, counters, found FROM solve_cache WHERE signature = $1`, signature)
	if err := row.Scan(&solBytes, &counterBytes, &found); err != nil {
		return models.Solution{}, models.Counters{}, false, false
	}

	go c.touch(signature)

	var counters models.Counters
	if err := json.Unmarshal(counterBytes, &counters); err != nil {
		return models.Solution{}, models.Counters{}, false, false
	}
	if !found {
		return models.Solution{}, counters, false, true
	}
	var sol models.Solution
	if err := json.Unmarshal(solBytes, &sol); err != nil {
		return models.Solution{}, models.Counters{}, false, false
	}
	return sol, counters, true, true
}

// touch bumps the hit counter and last_hit_at timestamp for a cache hit.
func (c *SolveCache) touch(signature string) {
	_, err := c.pool.Exec(context.Background(),
		`UPDATE solve_cache SET hit_count = hit_count + 1, last_hit_at = NOW() WHERE signature = $1`, signature)
	if err != nil {
		log.Printf("Warning: failed to update solve_cache hit counter: %v", err)
	}
}

// Store records a solve result for signature, upserting over any prior entry.
func (c *SolveCache) Store(ctx context.Context, signature string, spec models.PuzzleSpec, sol models.Solution, counters models.Counters, found bool) error {
	var solBytes []byte
	var err error
	if found {
		solBytes, err = json.Marshal(sol)
		if err != nil {
			return fmt.Errorf("marshaling solution: %v", err)
		}
	}
	counterBytes, err := json.Marshal(counters)
	if err != nil {
		return fmt.Errorf("marshaling counters: %v", err)
	}

	sql := `
		INSERT INTO solve_cache (signature, num_rows, num_cols, num_values, solution, counters, found)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (signature) DO UPDATE
		SET solution = EXCLUDED.solution, counters = EXCLUDED.counters, found = EXCLUDED.found;
	`
	_, err = c.pool.Exec(ctx, sql, signature, spec.NumRows, spec.NumCols, spec.NumValues, solBytes, counterBytes, found)
	if err != nil {
		return fmt.Errorf("failed to upsert solve_cache row: %v", err)
	}
	return nil
}

// SolveFunc computes a fresh solve for spec; passed by the caller so that
// store has no dependency on internal/solver.
type SolveFunc func() (models.Solution, models.Counters, bool, error)

// GetOrSolve returns the cached result for spec if one exists; otherwise it
// runs solve, collapsing concurrent calls for the same signature into one
// underlying solve via singleflight, and persists the result for next time.
func (c *SolveCache) GetOrSolve(ctx context.Context, spec models.PuzzleSpec, solve SolveFunc) (models.Solution, models.Counters, bool, error) {
	signature, err := Signature(spec)
	if err != nil {
		return models.Solution{}, models.Counters{}, false, err
	}

	if sol, counters, found, ok := c.Lookup(ctx, signature); ok {
		return sol, counters, found, nil
	}

	v, err, _ := c.group.Do(signature, func() (interface{}, error) {
		sol, counters, found, err := solve()
		if err != nil {
			return nil, err
		}
		if err := c.Store(ctx, signature, spec, sol, counters, found); err != nil {
			log.Printf("Warning: failed to persist solve_cache entry: %v", err)
		}
		return cachedResult{sol: sol, counters: counters, found: found}, nil
	})
	if err != nil {
		return models.Solution{}, models.Counters{}, false, err
	}
	r := v.(cachedResult)
	return r.sol, r.counters, r.found, nil
}

type cachedResult struct {
	sol      models.Solution
	counters models.Counters
	found    bool
}
