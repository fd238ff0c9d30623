// --- sqlworkshop-server/db/db.go ---
package db

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"sqlworkshop-server/models"
	"sqlworkshop-server/utils"
)

// The workshop never opens a database connection. This package only turns the
// display-only parameters into a connection string, checks that pgx would
// accept it, and renders the example program students can run themselves.

// ConnString builds a keyword/value PostgreSQL connection string.
// Empty parameters are omitted so pgx falls back to its own defaults.
func ConnString(p models.ConnectionParams) string {
	var parts []string
	add := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		parts = append(parts, key+"="+quote(value))
	}
	add("host", p.Host)
	add("port", p.Port)
	add("dbname", p.Database)
	add("user", p.User)
	add("password", p.Password)
	return strings.Join(parts, " ")
}

// MaskedConnString is ConnString with the password replaced by asterisks.
func MaskedConnString(p models.ConnectionParams) string {
	p.Password = utils.Mask(p.Password)
	return ConnString(p)
}

// ParseParams validates the parameters with pgx's own parser. It does not dial.
func ParseParams(p models.ConnectionParams) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(ConnString(p))
	if err != nil {
		return nil, fmt.Errorf("invalid connection parameters: %w", err)
	}
	return cfg, nil
}

// ExampleProgram renders a standalone Go program that loads schema.sql and
// seed.sql into the configured database. The password is never embedded.
func ExampleProgram(p models.ConnectionParams) string {
	p.Password = "tu_contraseña_aqui"
	return fmt.Sprintf(exampleTemplate, ConnString(p))
}

// quote wraps a value in single quotes when it contains characters that the
// keyword/value format treats specially.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

const exampleTemplate = `package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connection parameters
const connString = %q

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatalf("unable to create connection pool: %%v", err)
	}
	defer pool.Close()

	for _, file := range []string{"schema.sql", "seed.sql"} {
		script, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %%s: %%v", file, err)
		}
		if _, err := pool.Exec(ctx, string(script)); err != nil {
			log.Fatalf("error executing %%s: %%v", file, err)
		}
	}
	log.Println("Scripts executed successfully")

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM alumno;").Scan(&count); err != nil {
		log.Fatalf("verification query failed: %%v", err)
	}
	log.Printf("Total alumnos: %%d", count)
}

// DO NOT RUN against a database you care about: this is an example only.
`
