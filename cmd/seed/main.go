// Command seed provisions a first admin account and a small demo roster
// through the same repositories the server uses. Safe to re-run; existing
// rows are left alone.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgconn"

	"schoolhub/internal/config"
	"schoolhub/internal/crypto"
	"schoolhub/internal/db"
	"schoolhub/internal/repository"
)

func main() {
	email := flag.String("email", "admin@schoolhub.local", "admin email")
	password := flag.String("password", "admin", "admin password")
	demo := flag.Bool("demo", false, "also seed a demo roster")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	hash, err := crypto.HashPassword(*password)
	if err != nil {
		log.Fatalf("password hash failed: %v", err)
	}

	users := repository.NewUsers(pool)
	admin, err := users.Create(ctx, map[string]any{
		"email":        *email,
		"passwordHash": hash,
		"role":         "admin",
		"name":         "Administrator",
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			log.Printf("admin %s already exists, skipping", *email)
		} else {
			log.Fatalf("admin create failed: %v", err)
		}
	} else {
		log.Printf("created admin %s (id %d)", admin.Email, admin.ID)
	}

	if !*demo {
		return
	}

	students := repository.NewStudents(pool)
	roster := []map[string]any{
		{"name": "Student Ahmed", "class": "10", "section": "A", "rollNumber": "10A-01", "attendance": 92.5, "feeStatus": "paid"},
		{"name": "Student Fatima", "class": "10", "section": "A", "rollNumber": "10A-02", "attendance": 88.0, "feeStatus": "pending"},
		{"name": "Student Omar", "class": "9", "section": "B", "rollNumber": "9B-07", "attendance": 79.0, "feeStatus": "overdue"},
	}
	for _, fields := range roster {
		student, err := students.Create(ctx, fields)
		if err != nil {
			log.Fatalf("student create failed: %v", err)
		}
		log.Printf("created student %s (id %d)", student.Name, student.ID)
	}

	teachers := repository.NewTeachers(pool)
	teacher, err := teachers.Create(ctx, map[string]any{
		"name":    "Teacher Leila",
		"email":   "leila@schoolhub.local",
		"subject": "Mathematics",
		"salary":  42000.0,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			log.Printf("demo teacher already exists, skipping roster")
			return
		}
		log.Fatalf("teacher create failed: %v", err)
	}
	log.Printf("created teacher %s (id %d)", teacher.Name, teacher.ID)

	schedules := repository.NewSchedules(pool)
	for day := 1; day <= 3; day++ {
		if _, err := schedules.Create(ctx, map[string]any{
			"teacherId": teacher.ID,
			"dayOfWeek": day,
			"startTime": "09:00",
			"endTime":   "10:00",
			"class":     "10",
			"section":   "A",
			"subject":   "Mathematics",
		}); err != nil {
			log.Fatalf("schedule create failed: %v", err)
		}
	}
	log.Printf("seeded demo roster")
}
