package service

// Fixed user-facing messages, one per operation family. Underlying causes are
// logged, never surfaced.
const (
	msgFetchDrivers = "Failed to fetch drivers."
	msgFetchTeams   = "Failed to fetch teams."
	msgSaveDriver   = "Failed to save driver data. Please try again."
	msgSaveTeam     = "Failed to save teams data. Please try again."
	msgDeleteDriver = "Failed to delete driver."
	msgDeleteTeam   = "Failed to delete teams."
	msgLoginFailed  = "Login failed. Please check your credentials."
	msgRegisterFail = "Registration failed. Please check your details."
	msgLogoutFailed = "Logout failed. Please try again."
)
