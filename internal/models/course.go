package models

// Course is the catalog view of an LMS course.
type Course struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullname"`
	ShortName  string `json:"shortname"`
	Summary    string `json:"summary"`
	CategoryID int64  `json:"category_id"`
	Visible    bool   `json:"visible"`
}

// School is an IOMAD company, the tenant unit licenses are scoped to.
type School struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// EnrolledUser is one row of a course's assigned-users view.
type EnrolledUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Roles     []Role `json:"roles"`
}

// Role as reported by the LMS per enrolled user.
type Role struct {
	ID        int64  `json:"roleid"`
	ShortName string `json:"shortname"`
}

// Trainer is a user holding a teacher-equivalent role on a course.
type Trainer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	// Global is set when the trainer holds the role system-wide rather than
	// on this specific course.
	Global bool `json:"global"`
}
