package tokensale

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/internal/config"
	"github.com/gaze-network/tokensale/internal/postgres"
	"github.com/gaze-network/tokensale/modules/tokensale/api/httphandler"
	"github.com/gaze-network/tokensale/modules/tokensale/datagateway"
	memoryrepository "github.com/gaze-network/tokensale/modules/tokensale/repository/memory"
	postgresrepository "github.com/gaze-network/tokensale/modules/tokensale/repository/postgres"
	"github.com/gaze-network/tokensale/modules/tokensale/tokenledger"
	"github.com/gaze-network/tokensale/pkg/logger"
	"github.com/gaze-network/tokensale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
)

// Module bundles the running ledger and its event store.
type Module struct {
	Ledger     *Ledger
	EventStore datagateway.TokenSaleDataGateway

	cleanupFuncs []func(context.Context) error
}

// New builds the tokensale module from the application injector and mounts
// its HTTP API. When the sale config names a token, an in-process token
// ledger is created and linked at startup; otherwise claims stay disabled
// until the owner links one through the admin API.
func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	moduleConf := conf.Modules.Tokensale

	module := &Module{}

	var eventStore datagateway.TokenSaleDataGateway
	switch strings.ToLower(moduleConf.EventStore) {
	case "", "memory":
		eventStore = memoryrepository.NewRepository()
	case "postgres":
		pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "can't create postgres connection")
		}
		module.cleanupFuncs = append(module.cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		eventStore = postgresrepository.NewRepository(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "event store %q is not supported", moduleConf.EventStore)
	}
	module.EventStore = eventStore

	var opts []Option
	if moduleConf.Sale.TokenName != "" {
		opts = append(opts, WithTokenLedger(tokenledger.NewMemoryLedger(moduleConf.Sale.TokenName, moduleConf.Sale.TokenSymbol)))
	}
	ledger, err := NewLedger(moduleConf.Sale, eventStore, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "can't create sale ledger")
	}
	module.Ledger = ledger

	httpServer := do.MustInvoke[*fiber.App](injector)
	handler := httphandler.New(ledger, eventStore)
	if err := handler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount tokensale API")
	}
	logger.InfoContext(ctx, "Mounted tokensale HTTP handler",
		slogx.String("event_store", moduleConf.EventStore),
	)

	return module, nil
}

// Shutdown releases module resources.
func (m *Module) Shutdown(ctx context.Context) error {
	var errList []error
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.WithStack(errors.Join(errList...))
}
