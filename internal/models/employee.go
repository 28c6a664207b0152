package models

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleDriver  Role = "Driver"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Active"
	EmployeeInactive EmployeeStatus = "Inactive"
)

// Employee is a staff member able to log in. Password holds a bcrypt hash.
type Employee struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	Role     Role           `json:"role"`
	JoinDate string         `json:"joinDate"`
	Status   EmployeeStatus `json:"status"`
	Password string         `json:"password,omitempty"`
}

// Public strips the password hash before the employee leaves the server.
func (e Employee) Public() Employee {
	e.Password = ""
	return e
}
