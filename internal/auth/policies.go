package auth

import (
	"fmt"

	"go-store-builder/internal/logger"

	"github.com/casbin/casbin/v2"
)

// Roles known to the default policy set.
const (
	RoleAnonymous = "anonymous"
	RoleMerchant  = "merchant"
)

// DefaultPolicies grant the storefront and login flow to everyone and the
// admin API to merchants. Store ownership is checked by the services.
var DefaultPolicies = [][]string{
	{RoleAnonymous, "/auth/*", "GET"},
	{RoleAnonymous, "/storefront/*", "GET"},
	{RoleAnonymous, "/storefront/:store/orders", "POST"},

	{RoleMerchant, "/api/*", "*"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Merchants can do everything anonymous users can.
	if has, _ := e.HasRoleForUser(RoleMerchant, RoleAnonymous); !has {
		if _, err := e.AddRoleForUser(RoleMerchant, RoleAnonymous); err != nil {
			log.Error(err, "Failed to add role 'merchant' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}

// GrantMerchant gives a signed-in subject the merchant role.
func GrantMerchant(e casbin.IEnforcer, subject string) error {
	if has, _ := e.HasRoleForUser(subject, RoleMerchant); has {
		return nil
	}
	if _, err := e.AddRoleForUser(subject, RoleMerchant); err != nil {
		return fmt.Errorf("failed to grant merchant role: %w", err)
	}
	return nil
}
