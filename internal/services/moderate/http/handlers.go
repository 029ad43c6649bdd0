// Package http provides http transport for moderation
package http

import (
	stdhttp "net/http"
	"strings"

	"toxicbot/internal/core/event"
	"toxicbot/internal/core/version"
	"toxicbot/internal/modkit/httpkit"
	perr "toxicbot/internal/platform/errors"
	pnet "toxicbot/internal/platform/net"
	"toxicbot/internal/platform/net/http/bind"
	"toxicbot/internal/services/moderate/domain"
)

// EventHeader names the webhook event of a delivery
const EventHeader = pnet.EventHeader

// MaxPayload caps webhook bodies; GitHub caps deliveries at 25MB
const MaxPayload = 25 << 20

// Register mounts the router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/events", h.events)
	httpkit.PostJSON[domain.CheckInput](r, "/check", h.check)
	httpkit.Get(r, "/version", h.version)
}

type handlers struct{ svc domain.ServicePort }

// events takes a raw webhook delivery
// @Summary Moderate a webhook delivery
// @Tags Moderation
// @Accept json
// @Produce json
// @Param X-GitHub-Event header string true "Webhook event name"
// @Param X-GitHub-Delivery header string false "Delivery id"
// @Param payload body object true "GitHub webhook payload"
// @Success 200 {object} domain.Outcome "ok"
// @Failure 422 {object} httpkit.Envelope "event not handled"
// @Router /moderation/events [post]
func (h *handlers) events(r *stdhttp.Request) (any, error) {
	name := strings.TrimSpace(r.Header.Get(EventHeader))
	if name == "" {
		return nil, perr.WithField(perr.InvalidArgf("missing %s header", EventHeader), EventHeader)
	}
	body, err := bind.ReadBody(r, MaxPayload)
	if err != nil {
		return nil, err
	}
	d, err := event.Normalize(name, body)
	if err != nil {
		return nil, err
	}
	d.DeliveryID = pnet.DeliveryID(r.Context())
	if d.DeliveryID == "" {
		d.DeliveryID = r.Header.Get(pnet.DeliveryHeader)
	}
	return h.svc.Process(r.Context(), d)
}

// @Summary Classify a single text
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.CheckInput true "Text to score"
// @Success 200 {object} domain.CheckResult "ok"
// @Failure 502 {object} httpkit.Envelope "classifier rejected the call"
// @Router /moderation/check [post]
func (h *handlers) check(r *stdhttp.Request, in domain.CheckInput) (any, error) {
	return h.svc.Check(r.Context(), in.Text)
}

// @Summary Build information
// @Tags Moderation
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /moderation/version [get]
func (h *handlers) version(*stdhttp.Request) (any, error) {
	return version.Info(""), nil
}
