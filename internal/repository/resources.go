package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"schoolhub/internal/model"
)

type Users struct {
	*Resource[model.User]
	pool *pgxpool.Pool
}

func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{
		pool: pool,
		Resource: NewResource[model.User](pool, Definition{
			Table:   "users",
			Columns: []string{"id", "email", "password_hash", "role", "name", "created_at"},
			Fields: map[string]string{
				"email":        "email",
				"passwordHash": "password_hash",
				"role":         "role",
				"name":         "name",
			},
			Filters: map[string]string{"role": "role"},
			Search:  []string{"email", "name"},
		}),
	}
}

// GetByEmail looks a user up case-insensitively, for login.
func (u *Users) GetByEmail(ctx context.Context, email string) (model.User, error) {
	rows, err := u.pool.Query(ctx,
		"SELECT id, email, password_hash, role, name, created_at FROM users WHERE lower(email) = lower($1)", email)
	if err != nil {
		return model.User{}, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

func NewStudents(pool *pgxpool.Pool) *Resource[model.Student] {
	return NewResource[model.Student](pool, Definition{
		Table: "students",
		Columns: []string{
			"id", "name", "email", "roll_number", "class", "section", "rfid_tag",
			"attendance", "fee_status", "bus_number", "bus_assigned",
			"parent_name", "parent_phone", "status", "admission_date", "avatar",
		},
		Fields: map[string]string{
			"name":          "name",
			"email":         "email",
			"rollNumber":    "roll_number",
			"class":         "class",
			"section":       "section",
			"rfidTag":       "rfid_tag",
			"attendance":    "attendance",
			"feeStatus":     "fee_status",
			"busNumber":     "bus_number",
			"busAssigned":   "bus_assigned",
			"parentName":    "parent_name",
			"parentPhone":   "parent_phone",
			"status":        "status",
			"admissionDate": "admission_date",
			"avatar":        "avatar",
		},
		Filters: map[string]string{
			"class":     "class",
			"section":   "section",
			"feeStatus": "fee_status",
			"status":    "status",
			"busNumber": "bus_number",
		},
		Search: []string{"name", "email", "roll_number"},
	})
}

func NewTeachers(pool *pgxpool.Pool) *Resource[model.Teacher] {
	return NewResource[model.Teacher](pool, Definition{
		Table:   "teachers",
		Columns: []string{"id", "name", "email", "phone", "subject", "salary", "status", "avatar"},
		Fields: map[string]string{
			"name":    "name",
			"email":   "email",
			"phone":   "phone",
			"subject": "subject",
			"salary":  "salary",
			"status":  "status",
			"avatar":  "avatar",
		},
		Filters: map[string]string{
			"subject": "subject",
			"status":  "status",
		},
		Search: []string{"name", "email", "subject"},
	})
}

func NewSchedules(pool *pgxpool.Pool) *Resource[model.TeacherSchedule] {
	return NewResource[model.TeacherSchedule](pool, Definition{
		Table:   "teacher_schedules",
		Columns: []string{"id", "teacher_id", "day_of_week", "start_time", "end_time", "class", "section", "subject"},
		Fields: map[string]string{
			"teacherId": "teacher_id",
			"dayOfWeek": "day_of_week",
			"startTime": "start_time",
			"endTime":   "end_time",
			"class":     "class",
			"section":   "section",
			"subject":   "subject",
		},
		Filters: map[string]string{
			"teacherId": "teacher_id",
			"dayOfWeek": "day_of_week",
			"class":     "class",
			"section":   "section",
		},
		Search:  []string{"subject", "class"},
		OrderBy: "day_of_week, start_time",
	})
}

func NewAssignments(pool *pgxpool.Pool) *Resource[model.Assignment] {
	return NewResource[model.Assignment](pool, Definition{
		Table:   "assignments",
		Columns: []string{"id", "title", "description", "due_date", "class", "section", "created_by"},
		Fields: map[string]string{
			"title":       "title",
			"description": "description",
			"dueDate":     "due_date",
			"class":       "class",
			"section":     "section",
			"createdBy":   "created_by",
		},
		Filters: map[string]string{
			"class":     "class",
			"section":   "section",
			"createdBy": "created_by",
		},
		Search: []string{"title", "description"},
	})
}

func NewSubmissions(pool *pgxpool.Pool) *Resource[model.AssignmentSubmission] {
	return NewResource[model.AssignmentSubmission](pool, Definition{
		Table:   "assignment_submissions",
		Columns: []string{"id", "assignment_id", "student_id", "content", "submitted_at"},
		// submitted_at is store-assigned at creation and immutable, so it is
		// absent from the field map.
		Fields: map[string]string{
			"assignmentId": "assignment_id",
			"studentId":    "student_id",
			"content":      "content",
		},
		Filters: map[string]string{
			"assignmentId": "assignment_id",
			"studentId":    "student_id",
		},
		Search: []string{"content"},
	})
}
