package router

import "github.com/hongminglow/lifelink/internal/models"

// Paths of the views the front-end can open.
const (
	Home              = "/"
	Login             = "/login"
	Register          = "/register"
	ForgotPassword    = "/forgot-password"
	ResetPassword     = "/reset-password"
	Profile           = "/profile"
	AdminDashboard    = "/admin"
	DonorDashboard    = "/donor-dashboard"
	ReceiverDashboard = "/receiver-dashboard"
	NotFound          = "/404"
)

// Access describes who may open a route.
type Access int

const (
	Public Access = iota
	Authenticated
	RequiresRole
)

// Route is an entry of the route table.
type Route struct {
	Path   string
	Access Access
	Role   models.Role
	Alias  string
}

var table = map[string]Route{
	Home:              {Path: Home, Access: Public},
	Login:             {Path: Login, Access: Public},
	Register:          {Path: Register, Access: Public},
	ForgotPassword:    {Path: ForgotPassword, Access: Public},
	ResetPassword:     {Path: ResetPassword, Access: Public},
	Profile:           {Path: Profile, Access: Authenticated},
	AdminDashboard:    {Path: AdminDashboard, Access: RequiresRole, Role: models.RoleAdmin},
	DonorDashboard:    {Path: DonorDashboard, Access: RequiresRole, Role: models.RoleDonor},
	ReceiverDashboard: {Path: ReceiverDashboard, Access: RequiresRole, Role: models.RoleReceiver},
	"/donor":          {Path: "/donor", Access: Authenticated, Alias: DonorDashboard},
	"/receiver":       {Path: "/receiver", Access: Authenticated, Alias: ReceiverDashboard},
}

// Lookup returns the route registered for path.
func Lookup(path string) (Route, bool) {
	r, ok := table[path]
	return r, ok
}

// LandingFor returns the view a user with roles lands on after login or
// when denied a role-gated view. Precedence is admin, donor, receiver.
func LandingFor(roles models.RoleSet) string {
	primary, ok := roles.Primary()
	if !ok {
		return Home
	}
	switch primary {
	case models.RoleAdmin:
		return AdminDashboard
	case models.RoleDonor:
		return DonorDashboard
	case models.RoleReceiver:
		return ReceiverDashboard
	default:
		return Home
	}
}
