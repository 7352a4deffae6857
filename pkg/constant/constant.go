package constant

// Audit action names recorded by the audit trail. Admin-scoped actions that
// reference a target user get the target id appended by the caller.
const (
	ActionUserCreated            = "USER_CREATED"
	ActionUserEmailVerified      = "USER_EMAIL_VERIFIED"
	ActionUserLoggedIn           = "USER_LOGGED_IN"
	ActionUserRefreshedToken     = "USER_REFRESHED_TOKEN"
	ActionPasswordResetRequested = "USER_REQUESTED_PASSWORD_RESET"
	ActionPasswordReset          = "USER_RESET_PASSWORD"
	ActionUserCreatedByAdmin     = "USER_CREATED_BY_ADMIN"
	ActionAllUsersViewed         = "ALL_USERS_VIEWED"
	ActionUserProfileViewed      = "USER_PROFILE_VIEWED"
	ActionUserProfileUpdated     = "USER_PROFILE_UPDATED"
	ActionUserRoleUpdated        = "USER_ROLE_UPDATED"
)
