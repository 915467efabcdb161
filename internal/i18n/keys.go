// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordReset      = "auth.password_reset"
	KeyAuthResetEmailSent     = "auth.reset_email_sent"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserDeleted        = "user.deleted"

	// Stores
	KeyStoreCreated  = "store.created"
	KeyStoreUpdated  = "store.updated"
	KeyStoreDeleted  = "store.deleted"
	KeyStoreNotFound = "store.not_found"

	// Listings (seller products)
	KeyListingCreated   = "listing.created"
	KeyListingUpdated   = "listing.updated"
	KeyListingDeleted   = "listing.deleted"
	KeyListingNotFound  = "listing.not_found"
	KeyListingDuplicate = "listing.duplicate"

	// Catalog
	KeyProductNotFound  = "product.not_found"
	KeyCategoryNotFound = "category.not_found"
	KeyRequestSubmitted = "request.submitted"
	KeyRequestApproved  = "request.approved"
	KeyRequestRejected  = "request.rejected"
	KeyRequestNotFound  = "request.not_found"

	// Discounts
	KeyDiscountCreated  = "discount.created"
	KeyDiscountUpdated  = "discount.updated"
	KeyDiscountDeleted  = "discount.deleted"
	KeyDiscountNotFound = "discount.not_found"
	KeyDiscountInvalid  = "discount.invalid"

	// Seller applications
	KeySellerApplied         = "seller_application.submitted"
	KeySellerApplicationOpen = "seller_application.already_open"

	// Admin
	KeyAccessDenied       = "admin.access_denied"
	KeyAdminActionSuccess = "admin.action_success"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Files
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
)
