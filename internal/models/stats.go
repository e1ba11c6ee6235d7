package models

// StatsOverview counts every resource managed by the API.
type StatsOverview struct {
	Users       int `db:"users" json:"users"`
	Teachers    int `db:"teachers" json:"teachers"`
	Students    int `db:"students" json:"students"`
	Admins      int `db:"admins" json:"admins"`
	Departments int `db:"departments" json:"departments"`
	Subjects    int `db:"subjects" json:"subjects"`
	Classes     int `db:"classes" json:"classes"`
	Enrollments int `db:"enrollments" json:"enrollments"`
}

// RoleCount is one bucket of the users-by-role chart.
type RoleCount struct {
	Role  UserRole `db:"role" json:"role"`
	Total int      `db:"total" json:"total"`
}

// GroupCount is one bucket of a per-parent distribution chart.
type GroupCount struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Total int    `db:"total" json:"total"`
}

// StatsCharts holds the distributions shown on the dashboard.
type StatsCharts struct {
	UsersByRole          []RoleCount  `json:"usersByRole"`
	SubjectsByDepartment []GroupCount `json:"subjectsByDepartment"`
	ClassesBySubject     []GroupCount `json:"classesBySubject"`
}
