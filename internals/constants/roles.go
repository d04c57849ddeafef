package constants

import "fmt"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

const ErrOnlyAdminsCanAccess = "only admins may access %s"

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var (
	AllRoles  = []string{RoleStudent, RoleAdmin}
	AdminOnly = []string{RoleAdmin}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
