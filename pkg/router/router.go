package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/logger"
	"github.com/questx-lab/nftmint/pkg/xcontext"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

const maxBodySize = 1 << 20

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. A returned error stops the chain and is
// written to the client.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of a request, whether it failed or not.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB
	node   *snowflake.Node

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger, node *snowflake.Node) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		cfg:     cfg,
		logger:  logger,
		db:      db,
		node:    node,
		closers: []CloserFunc{handleResponse()},
	}
}

// Branch returns a router sharing the mux and all middlewares registered so far. Middlewares added
// to the branch do not affect the parent.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]MiddlewareFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Handle registers a plain http handler, no middleware applies to it.
func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// Handler returns the root handler with CORS applied.
func (r *Router) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: r.cfg.ApiServer.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
	})

	return c.Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) newContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	if r.db != nil {
		ctx = xcontext.WithDB(ctx, r.db)
	}
	if r.node != nil {
		ctx = xcontext.WithSnowFlake(ctx, r.node)
	}

	return ctx
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	befores, afters, closers := router.befores, router.afters, router.closers

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := router.newContext(r, w)
		defer func() {
			for _, c := range closers {
				c(ctx)
			}
		}()

		if r.Method != method {
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Not supported method %s", r.Method))
			return
		}

		var err error
		for _, m := range befores {
			if ctx, err = runMiddleware(ctx, m); err != nil {
				ctx = xcontext.WithError(ctx, err)
				return
			}
		}

		var req Request
		if err := bind(method, r, &req); err != nil {
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request: %v", err))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}
		ctx = xcontext.WithResponse(ctx, resp)

		for _, m := range afters {
			if ctx, err = runMiddleware(ctx, m); err != nil {
				ctx = xcontext.WithError(ctx, err)
				return
			}
		}
	}
}

func runMiddleware(ctx context.Context, m MiddlewareFunc) (context.Context, error) {
	newCtx, err := m(ctx)
	if newCtx == nil {
		newCtx = ctx
	}

	return newCtx, err
}

func bind(method string, r *http.Request, req any) error {
	switch method {
	case http.MethodGet:
		values := map[string]any{}
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           req,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(values)

	default:
		// The body is decoded as JSON whatever the content type says, browsers posting a
		// stringified object send text/plain.
		b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			return err
		}

		if len(b) == 0 {
			return nil
		}

		return json.Unmarshal(b, req)
	}
}
