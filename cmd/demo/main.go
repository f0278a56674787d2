// Command demo wires the compiler's output into two real drivers — pgx/v5
// (PostgreSQL) and mattn/go-sqlite3 (SQLite) — to show a caller splicing a
// compiled WHERE fragment into an executable query. This package sits
// outside the core and is never imported by it (§1 Non-goals, §6).
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nam088/json-logic-to-sql/compiler"
	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/middleware"
	"github.com/Nam088/json-logic-to-sql/queryhelpers"
	"github.com/Nam088/json-logic-to-sql/schema"
)

func demoSchema() *schema.Schema {
	s := schema.New()
	s.AddField("id", schema.TypeUUID,
		schema.Operators("eq"),
	)
	s.AddField("status", schema.TypeString,
		schema.Operators("eq", "in"),
	)
	s.AddField("age", schema.TypeInteger,
		schema.Operators("gt", "gte", "lt", "lte", "between"),
	)
	return s
}

func main() {
	middleware.Use(middleware.DebugMiddleware())

	rule := map[string]any{
		"and": []any{
			map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}},
			map[string]any{">": []any{map[string]any{"var": "age"}, 18}},
		},
	}

	s := demoSchema()

	result, err := middleware.Dispatch(middleware.OperationCompile, rule, func() (any, error) {
		sqlFrag, params, paramsArray, cerr := compiler.Compile(s, rule, compiler.Options{Dialect: dialect.PostgreSQL})
		if cerr != nil {
			return nil, cerr
		}
		return compiled{sql: sqlFrag, params: params, array: paramsArray}, nil
	})
	if err != nil {
		log.Fatalf("compile: %v", err)
	}
	frag := result.(compiled)

	projection, cerr := queryhelpers.BuildSelect(s, queryhelpers.SelectOptions{Dialect: dialect.PostgreSQL})
	if cerr != nil {
		log.Fatalf("build select: %v", cerr)
	}

	if dsn := os.Getenv("DEMO_POSTGRES_DSN"); dsn != "" {
		runPostgres(dsn, projection, frag)
	}
	if path := os.Getenv("DEMO_SQLITE_PATH"); path != "" {
		runSQLite(path, projection)
	}
	if os.Getenv("DEMO_POSTGRES_DSN") == "" && os.Getenv("DEMO_SQLITE_PATH") == "" {
		fmt.Printf("SELECT %s FROM accounts WHERE %s\n", projection, frag.sql)
		fmt.Printf("params: %v\n", frag.array)
	}
}

type compiled struct {
	sql    string
	params map[string]any
	array  []any
}

func runPostgres(dsn, projection string, frag compiled) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	query := fmt.Sprintf("SELECT %s FROM accounts WHERE %s", projection, frag.sql)
	rows, err := pool.Query(ctx, query, frag.array...)
	if err != nil {
		log.Fatalf("query postgres: %v", err)
	}
	defer rows.Close()

	// age, id, status is the exact column order demoSchema's default
	// (alphabetical) projection renders. pgtype.UUID boxes the "id" column
	// so a null UUID scans cleanly instead of failing on a zero [16]byte.
	for rows.Next() {
		var age int
		var id pgtype.UUID
		var status string
		if err := rows.Scan(&age, &id, &status); err != nil {
			log.Fatalf("scan postgres row: %v", err)
		}
		fmt.Printf("id=%x status=%s age=%d\n", id.Bytes, status, age)
	}
}

func runSQLite(path, projection string) {
	// SQLite only supports in/not_in on the compiler's array-column
	// operators; this demo schema never exercises those, so the same schema
	// compiles for the sqlite dialect, here with a single equality rule.
	s := demoSchema()
	rule := map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}}
	sqlFrag, _, array, cerr := compiler.Compile(s, rule, compiler.Options{Dialect: dialect.SQLite})
	if cerr != nil {
		log.Fatalf("compile sqlite: %v", cerr)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s FROM accounts WHERE %s", projection, sqlFrag)
	rows, err := db.Query(query, array...)
	if err != nil {
		log.Fatalf("query sqlite: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		fmt.Println("row")
	}
}
