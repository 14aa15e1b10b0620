package repository

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"schoolhub/internal/db"
	"schoolhub/internal/query"
)

func TestRecognizedDropsUnknownFields(t *testing.T) {
	students := NewStudents(nil)

	columns, args := students.recognized(map[string]any{
		"name":       "Student Ahmed",
		"class":      "10",
		"unknown":    "ignored",
		"drop_table": "students; --",
	})

	if !reflect.DeepEqual(columns, []string{"class", "name"}) {
		t.Fatalf("unexpected columns: %v", columns)
	}
	if !reflect.DeepEqual(args, []any{"10", "Student Ahmed"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestRecognizedEmptyInput(t *testing.T) {
	students := NewStudents(nil)
	columns, args := students.recognized(map[string]any{"bogus": 1})
	if len(columns) != 0 || len(args) != 0 {
		t.Fatalf("expected nothing recognized, got %v %v", columns, args)
	}
}

func TestBuildPredicateIsDeterministic(t *testing.T) {
	students := NewStudents(nil)
	filters := Filters{
		Q: "ahmed",
		Exact: map[string]any{
			"section": "A",
			"class":   "10",
			"bogus":   "ignored",
		},
	}

	for i := 0; i < 10; i++ {
		b := students.build(filters)
		want := " WHERE (lower(name) LIKE $1 OR lower(email) LIKE $1 OR lower(roll_number) LIKE $1)" +
			" AND class = $2 AND section = $3"
		if b.Where() != want {
			t.Fatalf("unexpected clause: %q", b.Where())
		}
		if !reflect.DeepEqual(b.Args(), []any{"%ahmed%", "10", "A"}) {
			t.Fatalf("unexpected args: %v", b.Args())
		}
	}
}

func TestBuildWithoutFilters(t *testing.T) {
	teachers := NewTeachers(nil)
	b := teachers.build(Filters{})
	if b.Where() != "" || len(b.Args()) != 0 {
		t.Fatalf("expected empty predicate, got %q %v", b.Where(), b.Args())
	}
}

// Integration tests below need a throwaway Postgres database.

func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("SCHOOLHUB_TEST_DB")
	if url == "" {
		t.Skip("SCHOOLHUB_TEST_DB not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, url)
	if err != nil {
		t.Fatalf("test db connect: %v", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"assignment_submissions", "assignments", "teacher_schedules", "teachers", "students", "users"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestStudentCreateGetRoundTrip(t *testing.T) {
	pool := openTestDB(t)
	students := NewStudents(pool)
	ctx := context.Background()

	created, err := students.Create(ctx, map[string]any{
		"name":       "Student Ahmed",
		"email":      "ahmed@example.local",
		"class":      "10",
		"section":    "A",
		"attendance": 92.5,
		"feeStatus":  "paid",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.Status != "active" {
		t.Fatalf("expected status default active, got %s", created.Status)
	}
	if created.AdmissionDate.IsZero() {
		t.Fatalf("expected admission date default")
	}

	fetched, err := students.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(created, fetched) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", created, fetched)
	}
}

func TestStudentListTotalsMatchPredicate(t *testing.T) {
	pool := openTestDB(t)
	students := NewStudents(pool)
	ctx := context.Background()

	if _, err := students.Create(ctx, map[string]any{"name": "Student Ahmed", "class": "10", "section": "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 9; i++ {
		fields := map[string]any{"name": "Other Student", "class": "9", "section": "B"}
		if i%2 == 0 {
			fields["class"] = "10"
		}
		if _, err := students.Create(ctx, fields); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, total, err := students.List(ctx, Filters{Q: "ahmed"}, query.NewPage(1, 50))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Name != "Student Ahmed" {
		t.Fatalf("expected the one matching student, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = students.List(ctx, Filters{Exact: map[string]any{"class": "10"}}, query.NewPage(1, 3))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 6 {
		t.Fatalf("expected total 6 for class 10, got %d", total)
	}
	if len(rows) != 3 {
		t.Fatalf("expected page of 3 rows, got %d", len(rows))
	}

	rows, total, err = students.List(ctx, Filters{}, query.NewPage(3, 4))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 10 || len(rows) != 2 {
		t.Fatalf("expected last partial page of 2 of 10, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = students.List(ctx, Filters{Exact: map[string]any{"class": "12"}}, query.NewPage(1, 50))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("expected empty result without error, got total=%d rows=%d", total, len(rows))
	}
}

func TestStudentUpdateSemantics(t *testing.T) {
	pool := openTestDB(t)
	students := NewStudents(pool)
	ctx := context.Background()

	created, err := students.Create(ctx, map[string]any{"name": "Student Ahmed", "class": "10", "attendance": 90.0})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Empty input is a no-op that still returns the record.
	same, err := students.Update(ctx, created.ID, map[string]any{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if !reflect.DeepEqual(created, same) {
		t.Fatalf("empty update changed the record:\n%+v\n%+v", created, same)
	}

	// Unrecognized fields alone are also a no-op.
	same, err = students.Update(ctx, created.ID, map[string]any{"bogus": "x"})
	if err != nil {
		t.Fatalf("unrecognized update: %v", err)
	}
	if !reflect.DeepEqual(created, same) {
		t.Fatalf("unrecognized update changed the record")
	}

	updated, err := students.Update(ctx, created.ID, map[string]any{"attendance": 97.5})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Attendance != 97.5 {
		t.Fatalf("expected attendance 97.5, got %v", updated.Attendance)
	}
	updated.Attendance = created.Attendance
	if !reflect.DeepEqual(created, updated) {
		t.Fatalf("update touched other fields:\n%+v\n%+v", created, updated)
	}

	if _, err := students.Update(ctx, created.ID+999, map[string]any{"attendance": 50.0}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
	if _, err := students.Update(ctx, created.ID+999, map[string]any{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for no-op on missing id, got %v", err)
	}
}

func TestStudentDeleteIdempotent(t *testing.T) {
	pool := openTestDB(t)
	students := NewStudents(pool)
	ctx := context.Background()

	created, err := students.Create(ctx, map[string]any{"name": "Student Ahmed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := students.Delete(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("expected first delete to report true, got %v %v", deleted, err)
	}
	deleted, err = students.Delete(ctx, created.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false without error, got %v %v", deleted, err)
	}
	if _, err := students.GetByID(ctx, created.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestScheduleOrderingAndFilters(t *testing.T) {
	pool := openTestDB(t)
	teachers := NewTeachers(pool)
	schedules := NewSchedules(pool)
	ctx := context.Background()

	teacher, err := teachers.Create(ctx, map[string]any{"name": "Teacher Leila", "email": "leila@example.local"})
	if err != nil {
		t.Fatalf("teacher create: %v", err)
	}

	slots := []map[string]any{
		{"teacherId": teacher.ID, "dayOfWeek": 3, "startTime": "09:00", "endTime": "10:00"},
		{"teacherId": teacher.ID, "dayOfWeek": 1, "startTime": "11:00", "endTime": "12:00"},
		{"teacherId": teacher.ID, "dayOfWeek": 1, "startTime": "08:00", "endTime": "09:00"},
	}
	for _, slot := range slots {
		if _, err := schedules.Create(ctx, slot); err != nil {
			t.Fatalf("schedule create: %v", err)
		}
	}

	rows, total, err := schedules.List(ctx, Filters{Exact: map[string]any{"teacherId": teacher.ID}}, query.NewPage(1, 50))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 slots, got %d", total)
	}
	if rows[0].DayOfWeek != 1 || rows[0].StartTime != "08:00" {
		t.Fatalf("expected day/start ordering, got %+v", rows[0])
	}
	if rows[2].DayOfWeek != 3 {
		t.Fatalf("expected day 3 last, got %+v", rows[2])
	}
}

func TestUserGetByEmailCaseInsensitive(t *testing.T) {
	pool := openTestDB(t)
	users := NewUsers(pool)
	ctx := context.Background()

	created, err := users.Create(ctx, map[string]any{
		"email":        "admin@example.local",
		"passwordHash": "x",
		"role":         "admin",
		"name":         "Admin",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := users.GetByEmail(ctx, "Admin@Example.LOCAL")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected user %d, got %d", created.ID, found.ID)
	}

	if _, err := users.GetByEmail(ctx, "nobody@example.local"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmissionTimestampImmutable(t *testing.T) {
	pool := openTestDB(t)
	students := NewStudents(pool)
	assignments := NewAssignments(pool)
	submissions := NewSubmissions(pool)
	ctx := context.Background()

	student, err := students.Create(ctx, map[string]any{"name": "Student Ahmed"})
	if err != nil {
		t.Fatalf("student create: %v", err)
	}
	assignment, err := assignments.Create(ctx, map[string]any{"title": "Essay"})
	if err != nil {
		t.Fatalf("assignment create: %v", err)
	}

	created, err := submissions.Create(ctx, map[string]any{
		"assignmentId": assignment.ID,
		"studentId":    student.ID,
		"content":      "first draft",
		"submittedAt":  "1970-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("submission create: %v", err)
	}
	if created.SubmittedAt.Year() <= 1970 {
		t.Fatalf("submittedAt must be server-assigned, got %v", created.SubmittedAt)
	}

	updated, err := submissions.Update(ctx, created.ID, map[string]any{
		"content":     "final draft",
		"submittedAt": "1970-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("submission update: %v", err)
	}
	if !updated.SubmittedAt.Equal(created.SubmittedAt) {
		t.Fatalf("submittedAt changed on update")
	}
	if updated.Content == nil || *updated.Content != "final draft" {
		t.Fatalf("expected content update, got %+v", updated.Content)
	}
}
