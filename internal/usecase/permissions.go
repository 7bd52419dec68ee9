package usecase

// Permission names known to the system. Tokens carry a subset of these,
// resolved per user at mint time.
const (
	PermViewOwnProfile = "view own profile"
	PermEditOwnProfile = "edit own profile"

	PermManageUsers = "manage users"
	PermViewUsers   = "view users"
	PermEditUsers   = "edit users"
	PermDeleteUsers = "delete users"

	PermManageCompanies = "manage companies"
	PermViewCompanies   = "view companies"
	PermEditCompanies   = "edit companies"
	PermDeleteCompanies = "delete companies"

	PermManageTeams = "manage teams"
	PermViewTeams   = "view teams"
	PermEditTeams   = "edit teams"
	PermDeleteTeams = "delete teams"

	PermManageTransactions = "manage transactions"
	PermViewTransactions   = "view transactions"
	PermEditTransactions   = "edit transactions"
	PermDeleteTransactions = "delete transactions"

	PermManageRoles = "manage roles"
)

// AllPermissions is the full catalog seeded at boot.
var AllPermissions = []string{
	PermViewOwnProfile,
	PermEditOwnProfile,
	PermManageUsers,
	PermViewUsers,
	PermEditUsers,
	PermDeleteUsers,
	PermManageCompanies,
	PermViewCompanies,
	PermEditCompanies,
	PermDeleteCompanies,
	PermManageTeams,
	PermViewTeams,
	PermEditTeams,
	PermDeleteTeams,
	PermManageTransactions,
	PermViewTransactions,
	PermEditTransactions,
	PermDeleteTransactions,
	PermManageRoles,
}

// DefaultUserPermissions are granted to every newly registered user.
var DefaultUserPermissions = []string{
	PermViewOwnProfile,
	PermEditOwnProfile,
}
