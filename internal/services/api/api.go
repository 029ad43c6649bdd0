// Package api provides the HTTP API for the webhook service
package api

import (
	"time"

	"toxicbot/internal/platform/config"
	"toxicbot/internal/platform/logger"
	phttp "toxicbot/internal/platform/net/http"
	"toxicbot/internal/platform/net/middleware"
	"toxicbot/internal/platform/store"

	"toxicbot/internal/modkit"
	"toxicbot/internal/modkit/httpkit"
	"toxicbot/internal/modkit/module"
	"toxicbot/internal/modkit/swaggerkit"

	moderatemod "toxicbot/internal/services/moderate/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules apply their own prefixes
	Config  config.Conf
	Store   *store.Store
	Logger  *logger.Logger
	Timeout time.Duration

	// MaxInFlight caps concurrent requests per module; 0 means unlimited
	MaxInFlight int

	// Docs serves the Swagger UI at /api/docs
	Docs bool
}

// Mount mounts every module under /api/v1 and registers its ports by name
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	} else {
		deps.Log = *logger.Get()
	}
	if opt.Store != nil {
		deps.CH = opt.Store.CH
	}

	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var modOpts []modkit.Option
	if opt.MaxInFlight > 0 {
		modOpts = append(modOpts, modkit.WithMiddlewares(middleware.Throttle(opt.MaxInFlight)))
	}

	mods := []module.Module{
		moderatemod.New(deps, modOpts...),
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(timeout), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.Docs)

		for _, m := range mods {
			// ports by name so binaries can reach services without holding the module
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
			deps.Log.Debug().Str("module", module.Describe(m)).Msg("mounted")
		}
	})
}
