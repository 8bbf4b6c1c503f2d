package user

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "gestor"
	RoleRecruiter Role = "recrutador"
	RoleDirector  Role = "diretor"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Area  string `json:"area,omitempty"`
	Token string `json:"token,omitempty"`
}

func (u User) RecordID() int64 { return u.ID }

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
