package application

import (
	"clubledger/domain/calendar"
	"clubledger/domain/interfaces"
	"clubledger/domain/services"
)

// ServiceConfig holds the settings every service bundle is built with
type ServiceConfig struct {
	Currency          string
	RenewalWindowDays int
	PasswordHashCost  int
	Clock             services.Clock
}

// Services is the set of domain services bound to one unit of work
type Services struct {
	Settings       interfaces.SettingsService
	Users          interfaces.UserService
	Payments       interfaces.PaymentService
	Reconciliation interfaces.ReconciliationService
	Credits        interfaces.CreditService
	Memberships    interfaces.MembershipService
	Access         interfaces.AccessPolicyService
	Shoots         interfaces.ShootService
	Finance        interfaces.FinanceService
	Content        interfaces.ContentService
}

// NewServices wires the domain services onto the repositories of uow.
// uow must already be started.
func NewServices(uow UnitOfWork, cfg ServiceConfig) *Services {
	cal := calendar.New(cfg.RenewalWindowDays)
	clock := cfg.Clock
	if clock == nil {
		clock = services.SystemClock{}
	}
	bus := uow.EventBus()

	settings := services.NewSettingsService(uow.SettingsRepository(), bus)
	finance := services.NewFinanceService(uow.FinancialTransactionRepository(), cfg.Currency)
	credits := services.NewCreditService(uow.CreditRepository(), uow.MembershipRepository(), uow.UserRepository(), bus)

	return &Services{
		Settings: settings,
		Users:    services.NewUserService(uow.UserRepository(), bus, cfg.PasswordHashCost),
		Payments: services.NewPaymentService(
			uow.PaymentRepository(),
			uow.MembershipRepository(),
			uow.UserRepository(),
			settings,
			cal,
			clock,
			cfg.Currency,
		),
		Reconciliation: services.NewReconciliationService(
			uow.PaymentRepository(),
			uow.MembershipRepository(),
			uow.CreditRepository(),
			uow.UserRepository(),
			uow.RBACRepository(),
			settings,
			finance,
			cal,
			clock,
			bus,
		),
		Credits:     credits,
		Memberships: services.NewMembershipService(uow.MembershipRepository(), bus),
		Access:      services.NewAccessPolicyService(uow.RBACRepository(), uow.UserRepository(), bus),
		Shoots:      services.NewShootService(uow.ShootRepository(), uow.UserRepository(), credits, finance, settings),
		Finance:     finance,
		Content:     services.NewContentService(uow.ContentRepository(), settings),
	}
}
