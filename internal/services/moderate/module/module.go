// Package module wires moderation into the API using modkit
package module

import (
	"context"
	"net/http"

	"toxicbot/internal/adapters/classifier"
	gh "toxicbot/internal/adapters/github"
	"toxicbot/internal/adapters/research"
	"toxicbot/internal/core/policy"
	"toxicbot/internal/core/prng"
	modkit "toxicbot/internal/modkit"
	"toxicbot/internal/modkit/httpkit"
	perr "toxicbot/internal/platform/errors"
	str "toxicbot/internal/platform/strings"

	mhttp "toxicbot/internal/services/moderate/http"
	"toxicbot/internal/services/moderate/domain"
	mrepo "toxicbot/internal/services/moderate/repo"
	msvc "toxicbot/internal/services/moderate/service"
)

// Module implements the moderation API module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
}

// Ports exposes the service to other modules and to the binaries
type Ports struct {
	Service domain.ServicePort
}

// New constructs the moderation module from deps.Cfg and panics on invalid configuration
// a prebuilt Ports passed through modkit.WithPorts skips collaborator construction
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("moderation"),
		modkit.WithPrefix("/moderation"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Service == nil {
		svc, err := NewService(deps, FromConfig(deps.Cfg))
		if err != nil {
			panic("moderation module: " + err.Error())
		}
		ports = Ports{Service: svc}
	}

	return &Module{
		name:   b.Name,
		prefix: str.MustPrefix(b.Prefix),
		mws:    b.Mw,
		ports:  ports,
	}
}

// NewService validates o and builds the orchestrator with its collaborators
// telemetry goes to ClickHouse only when o.Telemetry is set and deps.CH is present
func NewService(deps modkit.Deps, o Options) (*msvc.Service, error) {
	if err := o.Validate(); err != nil {
		return nil, perr.WithOp(err, "moderation.options")
	}

	cls, err := classifier.New(classifier.Options{
		Kind:       o.Classifier,
		URL:        o.ClassifierURL,
		APIKey:     o.AnthropicAPIKey,
		Model:      o.AnthropicModel,
		Timeout:    o.Timeout,
		MaxRetries: o.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	rc, err := research.New(research.Options{
		BaseURL:    o.ResearchURL,
		Key:        o.LogKey,
		Timeout:    o.Timeout,
		MaxRetries: o.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	ghc := gh.NewClient(gh.Options{
		BaseURL:    o.GitHubAPIURL,
		Token:      o.GitHubToken,
		Timeout:    o.Timeout,
		MaxRetries: o.MaxRetries,
	})

	engine := policy.New(cls, rc, ghc, prng.SFC32, policy.Config{
		Threshold: o.Threshold,
		Silent:    o.Silent,
		Message:   o.Message,
	})

	var tel domain.TelemetryPort
	if o.Telemetry {
		if !deps.HasStore() {
			deps.Log.Warn().Msg("telemetry enabled without clickhouse, metrics only")
		} else {
			t := mrepo.NewCH(deps.CH)
			if err := t.EnsureSchema(context.Background()); err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "telemetry schema")
			}
			tel = t
		}
	}

	return msvc.New(engine, cls, rc, tel, msvc.Config{Threshold: o.Threshold}), nil
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		mhttp.Register(rr, m.ports.Service)
	})
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
