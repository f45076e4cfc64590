// Seeds a draft class from a JSON file into the players table.
//
// Usage: seed_players [path/to/players.json]
//
// The file holds an array of players; entries without an id get one
// generated, and entries without a consensus rank land at the back of the
// board.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridironlabs/mockdraft/go/internal/dbconfig"
	"github.com/gridironlabs/mockdraft/go/internal/models"
)

type classEntry struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Position      string    `json:"position"`
	College       string    `json:"college"`
	ConsensusRank int       `json:"consensus_rank"`
	Year          int       `json:"year"`
}

func main() {
	ctx := context.Background()

	path := "go/internal/assets/draft_class.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	var class []classEntry
	if err := json.Unmarshal(data, &class); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal draft class: %v\n", err)
		os.Exit(1)
	}

	cfg := dbconfig.FromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	total, inserted, skipped, errs := len(class), 0, 0, 0
	for _, p := range class {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.ConsensusRank <= 0 {
			p.ConsensusRank = models.UnrankedRank
		}
		tag, err := pool.Exec(ctx, `
            INSERT INTO players (
              id, full_name, position, college, consensus_rank, year
            ) VALUES ($1,$2,$3,$4,$5,$6)
            ON CONFLICT (id) DO NOTHING
        `, p.ID, p.FullName, p.Position, p.College, p.ConsensusRank, p.Year)
		if err != nil {
			errs++
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}
	fmt.Printf(
		"Draft class seed: total=%d inserted=%d skipped=%d errors=%d\n",
		total, inserted, skipped, errs,
	)
}
