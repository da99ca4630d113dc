package http

import (
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
)

// AdminHandler serves the /v1/admin routes. Every route needs admin:read or
// admin:write.
type AdminHandler struct {
	Domains      *service.DomainService
	Cards        *service.CardService
	Provisioning *service.ProvisioningService
	Users        *service.UserService
	Ledger       *service.LedgerService
	Removal      *service.RemovalService
	Sweep        *service.SweepService
}
