package constants

import "fmt"

// ==========================
// Roles
// ==========================
const (
	RoleAdmin      = "admin"
	RoleCashier    = "cashier"
	RoleManager    = "manager"
	RoleAccountant = "accountant"
)

// ==========================
// Permissions
// ==========================
const (
	PermViewStudents    = "view_students"
	PermManageStudents  = "manage_students"
	PermViewFees        = "view_fees"
	PermManageFees      = "manage_fees"
	PermManageAcademics = "manage_academics"
	PermCreatePayments  = "create_payments"
	PermViewPayments    = "view_payments"
)

// Role error message templates
const (
	ErrMissingPermission = "❌ Role %s does not have permission %s."
	ErrUnknownRole       = "❌ Unknown role '%s'."
)

func PermissionError(role, perm string) string {
	return fmt.Sprintf(ErrMissingPermission, role, perm)
}

func UnknownRoleError(role string) string {
	return fmt.Sprintf(ErrUnknownRole, role)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleCashier,
		RoleManager,
		RoleAccountant,
	}

	AllPermissions = []string{
		PermViewStudents,
		PermManageStudents,
		PermViewFees,
		PermManageFees,
		PermManageAcademics,
		PermCreatePayments,
		PermViewPayments,
	}

	RolePermissions = map[string][]string{
		RoleAdmin: AllPermissions,
		RoleManager: {
			PermViewStudents,
			PermManageStudents,
			PermViewFees,
			PermManageFees,
			PermManageAcademics,
			PermViewPayments,
		},
		RoleCashier: {
			PermViewStudents,
			PermViewFees,
			PermCreatePayments,
			PermViewPayments,
		},
		RoleAccountant: {
			PermViewStudents,
			PermViewFees,
			PermViewPayments,
		},
	}
)

func IsValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// RoleHas reports whether role carries perm.
func RoleHas(role, perm string) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
