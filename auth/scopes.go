package auth

// Platform scopes accepted by the auth server.
// See https://api.messengerpeople.dev/docs/authentication for details.
const (
	ScopeCRMBilling          = "crm:billing"
	ScopeMediaCreate         = "media:create"
	ScopeMediaDelete         = "media:delete"
	ScopeMediaRead           = "media:read"
	ScopeMessagesSend        = "messages:send"
	ScopeMessagesRead        = "messages:read"
	ScopeMessagesDelete      = "messages:delete"
	ScopeMessengerSettings   = "messenger:settings"
	ScopeSubscriptionsCreate = "subscriptions:create"
	ScopeSubscriptionsDelete = "subscriptions:delete"
	ScopeSubscriptionsRead   = "subscriptions:read"
	ScopeSubscriptionsUpdate = "subscriptions:update"
	ScopeTemplatesCreate     = "templates:create"
	ScopeTemplatesDelete     = "templates:delete"
	ScopeTemplatesRead       = "templates:read"
	ScopeTemplatesUpdate     = "templates:update"
	ScopeUserProfile         = "user:profile"
	ScopeUserProfilePublic   = "user:profile:public"
	ScopeUserScopes          = "user:scopes"
	ScopeWebhooksCreate      = "webhooks:create"
	ScopeWebhooksDelete      = "webhooks:delete"
	ScopeWebhooksRead        = "webhooks:read"
	ScopeWebhooksUpdate      = "webhooks:update"

	// ScopeCRMAdmin is a scope bundle required by the web frontend.
	//
	// Deprecated: the platform plans to remove it; request the individual scopes instead.
	ScopeCRMAdmin = "crm:admin"
)

// AllScopes returns every non-deprecated platform scope.
func AllScopes() []string {
	return []string{
		ScopeCRMBilling,
		ScopeMediaCreate,
		ScopeMediaDelete,
		ScopeMediaRead,
		ScopeMessagesSend,
		ScopeMessagesRead,
		ScopeMessagesDelete,
		ScopeMessengerSettings,
		ScopeSubscriptionsCreate,
		ScopeSubscriptionsDelete,
		ScopeSubscriptionsRead,
		ScopeSubscriptionsUpdate,
		ScopeTemplatesCreate,
		ScopeTemplatesDelete,
		ScopeTemplatesRead,
		ScopeTemplatesUpdate,
		ScopeUserProfile,
		ScopeUserProfilePublic,
		ScopeUserScopes,
		ScopeWebhooksCreate,
		ScopeWebhooksDelete,
		ScopeWebhooksRead,
		ScopeWebhooksUpdate,
	}
}
