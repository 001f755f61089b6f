// Package main is a diagnostic tool for testing database connectivity and
// inspecting live tracker data. It connects to the database, queries the
// projects and tickets tables, and prints a summary to stdout. The binary
// exits with a non-zero code on any failure so it can be embedded in health
// checks or CI/CD pipeline steps to gate deployments on a reachable,
// populated database.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

func main() {
	dbPassword := os.Getenv("DATABASE_PASSWORD")
	if dbPassword == "" {
		dbPassword = "tracker"
	}

	connStr := fmt.Sprintf("host=localhost port=5432 user=tracker password=%s dbname=ticket_tracker sslmode=disable", dbPassword)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	// Check projects
	fmt.Println("=== PROJECTS ===")
	rows, err := db.Query("SELECT project_id, name FROM projects")
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			log.Printf("Warning: failed to scan project row: %v", err)
			continue
		}
		fmt.Printf("Project: %s (ID: %s)\n", name, id)
	}

	// Check tickets
	fmt.Println("\n=== TICKETS ===")
	rows2, err := db.Query("SELECT ticket_id, title, status, priority, description FROM tickets")
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows2.Close()

	count := 0
	for rows2.Next() {
		var id, title, status, priority string
		var description *string
		if err := rows2.Scan(&id, &title, &status, &priority, &description); err != nil {
			log.Printf("Warning: failed to scan ticket row: %v", err)
			continue
		}
		hasDescription := "NO"
		if description != nil && *description != "" {
			hasDescription = fmt.Sprintf("YES (%d chars)", len(*description))
		}
		fmt.Printf("Ticket: %s [%s/%s] (ID: %s) - Description: %s\n", title, status, priority, id, hasDescription)
		count++
	}

	if count == 0 {
		fmt.Println("No tickets found!")
	}
}
