package domain

// StudentProfile se crea junto al User y nunca se re-sincroniza con el directorio.
type StudentProfile struct {
	UserID             string  `json:"user_id"`
	RegistrationNumber string  `json:"registration_number"`
	BatchYear          int     `json:"batch_year"`
	CourseID           string  `json:"course_id"`
	BatchID            string  `json:"batch_id"`
	CGPA               float64 `json:"cgpa"`
	Department         string  `json:"department"`
	YearJoined         int     `json:"year_joined"`
}

type TeacherProfile struct {
	UserID        string `json:"user_id"`
	EmployeeID    string `json:"employee_id"`
	Designation   string `json:"designation"`
	Qualification string `json:"qualification"`
	Department    string `json:"department"`
	YearJoined    int    `json:"year_joined"`
}

// Account agrupa un User con su perfil según el rol. A lo sumo un perfil no es nil.
type Account struct {
	User    User            `json:"user"`
	Student *StudentProfile `json:"student_profile,omitempty"`
	Teacher *TeacherProfile `json:"teacher_profile,omitempty"`
}

// Profile devuelve el perfil presente o nil para admins.
func (a Account) Profile() any {
	switch {
	case a.Student != nil:
		return a.Student
	case a.Teacher != nil:
		return a.Teacher
	}
	return nil
}
