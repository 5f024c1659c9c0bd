package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	_ "ariga.io/atlas-go-sdk/recordriver" // import used by the CLI tool
	"ariga.io/atlas-provider-gorm/gormschema"

	"newscorr/src/database"
)

// Prints the DDL of every newscorr table for `atlas migrate diff --env gorm`.
// gen_random_uuid() backs the analysis_runs primary key.
func main() {
	dialect := flag.String("dialect", "postgres", "gorm dialect to render")
	flag.Parse()

	statements, err := gormschema.New(*dialect).Load(database.DbTables...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load newscorr schema: %v\n", err)
		os.Exit(1)
	}

	if *dialect == "postgres" {
		fmt.Println(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`)
	}
	io.WriteString(os.Stdout, statements) //nolint:errcheck
}
