package auth

// Navigation targets the auth flows resolve to.
const (
	RouteHome                    = "/"
	RouteLogin                   = "/login"
	RouteRegister                = "/register"
	RoutePatientDashboard        = "/patient-dashboard"
	RouteDoctorDashboard         = "/doctor-dashboard"
	RouteDoctorProfileCompletion = "/doctor-profile-completion"
)
