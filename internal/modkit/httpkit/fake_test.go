package httpkit

import (
	"net/http"

	phttp "toxicbot/internal/platform/net/http"
)

// reg records one registration made against fakeRouter
type reg struct {
	verb string
	path string
	ph   phttp.Handler
	h    http.Handler
}

// fakeRouter records prefixes, middleware and registrations; sub routers are itself
type fakeRouter struct {
	prefixes  []string
	useCalls  int
	lastMWLen int
	regs      []reg
}

func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}

func (f *fakeRouter) Group(fn func(Router)) { fn(f) }

func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) {
	f.useCalls++
	f.lastMWLen = len(mw)
}

func (f *fakeRouter) Handle(path string, h http.Handler) {
	f.regs = append(f.regs, reg{verb: "HANDLE", path: path, h: h})
}

func (f *fakeRouter) Get(path string, h phttp.Handler) {
	f.regs = append(f.regs, reg{verb: "GET", path: path, ph: h})
}

func (f *fakeRouter) Post(path string, h phttp.Handler) {
	f.regs = append(f.regs, reg{verb: "POST", path: path, ph: h})
}

func (f *fakeRouter) Mux() http.Handler { return http.NewServeMux() }
