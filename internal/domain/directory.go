package domain

// DirectoryStudent es el registro institucional de un alumno. Solo lectura.
type DirectoryStudent struct {
	Email              string
	FirstName          string
	LastName           string
	RegistrationNumber string
	BatchYear          int
	CourseID           string
	BatchID            string
	CGPA               float64
	Department         string
	YearJoined         int
}

// DirectoryTeacher es el registro institucional de un docente. Solo lectura.
type DirectoryTeacher struct {
	Email       string
	FirstName   string
	LastName    string
	EmployeeID  string
	Designation string
	Department  string
	YearJoined  int
}
