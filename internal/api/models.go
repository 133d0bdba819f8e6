package api

import "time"

// Wire DTOs for the staff backend. Role fields are deliberately `any`: the
// backend sends a numeric code on some endpoints and a string name on others,
// and the single conversion point is domain.NormalizeRole at the consumer.

// LoginResult is the body of a successful POST /Auth/login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Employee  Employee  `json:"employee"`
}

// Employee mirrors the backend's employee record.
type Employee struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Role           any    `json:"role"`
	DepartmentID   string `json:"departmentId,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
}

// Profile is the body of GET /Auth/me.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  any    `json:"role"`
}

// EmployeePage is the paginated envelope for GET /Employees.
type EmployeePage struct {
	Items      []Employee `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalCount int        `json:"totalCount"`
	TotalPages int        `json:"totalPages"`
}

// Department mirrors the backend's department record.
type Department struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
}

// CreateEmployeeInput is the body for POST /Employees and PUT /Employees/{id}.
type CreateEmployeeInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	Role         int    `json:"role"`
	DepartmentID string `json:"departmentId"`
}

// ListEmployeesParams narrows GET /Employees.
type ListEmployeesParams struct {
	Page         int
	PageSize     int
	Search       string
	DepartmentID string
}
