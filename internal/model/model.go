package model

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type Student struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         *string   `db:"email" json:"email"`
	RollNumber    *string   `db:"roll_number" json:"rollNumber"`
	Class         *string   `db:"class" json:"class"`
	Section       *string   `db:"section" json:"section"`
	RFIDTag       *string   `db:"rfid_tag" json:"rfidTag"`
	Attendance    float64   `db:"attendance" json:"attendance"`
	FeeStatus     string    `db:"fee_status" json:"feeStatus"`
	BusNumber     *string   `db:"bus_number" json:"busNumber"`
	BusAssigned   bool      `db:"bus_assigned" json:"busAssigned"`
	ParentName    *string   `db:"parent_name" json:"parentName"`
	ParentPhone   *string   `db:"parent_phone" json:"parentPhone"`
	Status        string    `db:"status" json:"status"`
	AdmissionDate time.Time `db:"admission_date" json:"admissionDate"`
	Avatar        *string   `db:"avatar" json:"avatar"`
}

type Teacher struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	Email   string  `db:"email" json:"email"`
	Phone   *string `db:"phone" json:"phone"`
	Subject *string `db:"subject" json:"subject"`
	Salary  float64 `db:"salary" json:"salary"`
	Status  string  `db:"status" json:"status"`
	Avatar  *string `db:"avatar" json:"avatar"`
}

type TeacherSchedule struct {
	ID        int64   `db:"id" json:"id"`
	TeacherID int64   `db:"teacher_id" json:"teacherId"`
	DayOfWeek int     `db:"day_of_week" json:"dayOfWeek"`
	StartTime string  `db:"start_time" json:"startTime"`
	EndTime   string  `db:"end_time" json:"endTime"`
	Class     *string `db:"class" json:"class"`
	Section   *string `db:"section" json:"section"`
	Subject   *string `db:"subject" json:"subject"`
}

type Assignment struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"dueDate"`
	Class       *string    `db:"class" json:"class"`
	Section     *string    `db:"section" json:"section"`
	CreatedBy   *int64     `db:"created_by" json:"createdBy"`
}

type AssignmentSubmission struct {
	ID           int64     `db:"id" json:"id"`
	AssignmentID int64     `db:"assignment_id" json:"assignmentId"`
	StudentID    int64     `db:"student_id" json:"studentId"`
	Content      *string   `db:"content" json:"content"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submittedAt"`
}
