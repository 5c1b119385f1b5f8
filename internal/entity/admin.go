package entity

const RoleAdministrator = "Administrator"

type Admin struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
