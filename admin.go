package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clubledger/application"
	"clubledger/application/dto"
	"clubledger/cmd"
	"clubledger/config"
	"clubledger/database"
	"clubledger/domain/entities"
	"clubledger/domain/interfaces"
	"clubledger/infrastructure"

	log "github.com/sirupsen/logrus"
)

// adminEnv is what an admin command runs against. Events raised by admin
// commands are dropped since no consumers run alongside them.
type adminEnv struct {
	cfg        *config.Config
	uowFactory application.UnitOfWorkFactory
	serviceCfg application.ServiceConfig
}

type adminCommand struct {
	usage   string
	minArgs int
	run     func(ctx context.Context, env *adminEnv, args []string) error
}

var adminCommands = map[string]adminCommand{
	"register-user": {
		usage:   "register-user <email> <password> <name...>",
		minArgs: 3,
		run:     registerUser,
	},
	"assign-role": {
		usage:   "assign-role <user-id> <role-name...>",
		minArgs: 2,
		run:     assignRole,
	},
	"revoke-role": {
		usage:   "revoke-role <user-id> <role-name...>",
		minArgs: 2,
		run:     revokeRole,
	},
	"adjust-credits": {
		usage:   "adjust-credits <user-id> <amount> <admin-id> <reason...>",
		minArgs: 4,
		run:     adjustCredits,
	},
	"confirm-cash": {
		usage:   "confirm-cash <payment-id> <admin-id>",
		minArgs: 2,
		run:     confirmCash,
	},
	"expire-memberships": {
		usage: "expire-memberships [YYYY-MM-DD]",
		run:   expireMemberships,
	},
	"statement": {
		usage:   "statement <from YYYY-MM-DD> <to YYYY-MM-DD>",
		minArgs: 2,
		run:     statement,
	},
	"schedule-task": {
		usage:   "schedule-task <expire_memberships|low_credits_reminder>",
		minArgs: 1,
		run:     scheduleTask,
	},
}

func runAdminCommand(command adminCommand, args []string) error {
	if len(args) < command.minArgs {
		return fmt.Errorf("usage: clubledger %s", command.usage)
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	env := &adminEnv{
		cfg:        cfg,
		uowFactory: infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher()),
		serviceCfg: cmd.ServiceConfigFrom(cfg),
	}
	return command.run(ctx, env, args)
}

func registerUser(ctx context.Context, env *adminEnv, args []string) error {
	user, err := application.WithServices(ctx, env.uowFactory, env.serviceCfg, func(s *application.Services) (*entities.User, error) {
		return s.Users.Register(ctx, interfaces.NewUser{
			Email:    args[0],
			Password: args[1],
			Name:     strings.Join(args[2:], " "),
		})
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"userId": user.ID,
		"email":  user.Email,
	}).Info("Registered user")
	return nil
}

func assignRole(ctx context.Context, env *adminEnv, args []string) error {
	userID, err := parseID("user-id", args[0])
	if err != nil {
		return err
	}
	roleName := strings.Join(args[1:], " ")

	_, err = application.WithServices(ctx, env.uowFactory, env.serviceCfg, func(s *application.Services) (struct{}, error) {
		return struct{}{}, s.Access.AssignRole(ctx, userID, roleName)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"userId": userID, "role": roleName}).Info("Assigned role")
	return nil
}

func revokeRole(ctx context.Context, env *adminEnv, args []string) error {
	userID, err := parseID("user-id", args[0])
	if err != nil {
		return err
	}
	roleName := strings.Join(args[1:], " ")

	_, err = application.WithServices(ctx, env.uowFactory, env.serviceCfg, func(s *application.Services) (struct{}, error) {
		return struct{}{}, s.Access.RevokeRole(ctx, userID, roleName)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"userId": userID, "role": roleName}).Info("Revoked role")
	return nil
}

func adjustCredits(ctx context.Context, env *adminEnv, args []string) error {
	userID, err := parseID("user-id", args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	adminID, err := parseID("admin-id", args[2])
	if err != nil {
		return err
	}
	reason := strings.Join(args[3:], " ")

	type adjustment struct {
		credit  *entities.Credit
		balance int64
	}
	result, err := application.WithServices(ctx, env.uowFactory, env.serviceCfg, func(s *application.Services) (*adjustment, error) {
		credit, err := s.Credits.Adjust(ctx, userID, amount, adminID, reason)
		if err != nil {
			return nil, err
		}
		balance, err := s.Credits.Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &adjustment{credit: credit, balance: balance}, nil
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"userId":   userID,
		"creditId": result.credit.ID,
		"amount":   amount,
		"balance":  result.balance,
	}).Info("Adjusted credits")
	return nil
}

func confirmCash(ctx context.Context, env *adminEnv, args []string) error {
	paymentID, err := parseID("payment-id", args[0])
	if err != nil {
		return err
	}
	adminID, err := parseID("admin-id", args[1])
	if err != nil {
		return err
	}

	result, err := application.WithServices(ctx, env.uowFactory, env.serviceCfg, func(s *application.Services) (*interfaces.ReconciliationResult, error) {
		return s.Reconciliation.ConfirmCash(ctx, paymentID, adminID)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"paymentId":      paymentID,
		"userId":         result.Payment.UserID,
		"alreadyApplied": result.AlreadyApplied,
	}).Info("Confirmed cash payment")
	return nil
}

func expireMemberships(ctx context.Context, env *adminEnv, args []string) error {
	today := time.Now().UTC()
	if len(args) > 0 {
		parsed, err := time.Parse(time.DateOnly, args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", args[0], err)
		}
		today = parsed
	}

	expired, err := application.WithServices(ctx, env.uowFactory, env.serviceCfg, func(s *application.Services) ([]*entities.Membership, error) {
		return s.Memberships.ExpireMemberships(ctx, today)
	})
	if err != nil {
		return err
	}

	log.WithField("expired", len(expired)).Info("Expired memberships")
	return nil
}

func statement(ctx context.Context, env *adminEnv, args []string) error {
	from, err := time.Parse(time.DateOnly, args[0])
	if err != nil {
		return fmt.Errorf("invalid from date %q: %w", args[0], err)
	}
	to, err := time.Parse(time.DateOnly, args[1])
	if err != nil {
		return fmt.Errorf("invalid to date %q: %w", args[1], err)
	}

	stmt, err := application.WithServices(ctx, env.uowFactory, env.serviceCfg, func(s *application.Services) (*interfaces.Statement, error) {
		return s.Finance.GenerateStatement(ctx, from, to)
	})
	if err != nil {
		return err
	}

	currency := env.cfg.Currency
	fmt.Printf("Statement %s to %s\n", stmt.From.Format(time.DateOnly), stmt.To.Format(time.DateOnly))
	for category, amount := range stmt.IncomeByCategory {
		fmt.Printf("  income   %-32s %s\n", category, application.FormatAmount(amount, currency))
	}
	for category, amount := range stmt.ExpenseByCategory {
		fmt.Printf("  expense  %-32s %s\n", category, application.FormatAmount(amount, currency))
	}
	fmt.Printf("Income %s, expenses %s, net %s (%d rows)\n",
		application.FormatAmount(stmt.TotalIncome, currency),
		application.FormatAmount(stmt.TotalExpense, currency),
		application.FormatAmount(stmt.Net, currency),
		len(stmt.Transactions))
	return nil
}

func scheduleTask(ctx context.Context, env *adminEnv, args []string) error {
	name := args[0]
	var payload any
	switch name {
	case dto.TaskExpireMemberships:
		payload = dto.ExpireMembershipsPayload{}
	case dto.TaskLowCreditsReminder:
		payload = dto.LowCreditsReminderPayload{Threshold: env.cfg.LowCreditThreshold}
	default:
		return fmt.Errorf("task %q cannot be scheduled by hand", name)
	}

	natsClient := infrastructure.NewNATSClient(env.cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return err
	}
	defer natsClient.Close()

	if err := infrastructure.NewNATSTaskQueue(natsClient).Schedule(ctx, name, payload); err != nil {
		return err
	}

	log.WithField("task", name).Info("Scheduled task")
	return nil
}

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return id, nil
}
