package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"ecodeli/internal/config"
	"ecodeli/internal/http/handlers"
	"ecodeli/internal/http/middleware/ratelimit"
	"ecodeli/internal/http/procedures"
	"ecodeli/internal/http/router"
	"ecodeli/internal/locale"
	"ecodeli/internal/logx"
	"ecodeli/internal/rpc"
	"ecodeli/internal/service/delivery"
	"ecodeli/internal/service/merchant"
	"ecodeli/internal/service/notification"
	"ecodeli/internal/service/payment"
	"ecodeli/internal/service/provider"
	"ecodeli/internal/service/purchase"
	"ecodeli/internal/service/subscription"
	"ecodeli/internal/session"
)

type proceduresIn struct {
	dig.In
	Logger        logx.Logger
	Results       *prometheus.CounterVec `name:"rpc_procedure_results_total"`
	Deliveries    *delivery.Service
	Payments      *payment.Service
	Notifications *notification.Service
	Purchases     *purchase.Service
	Subscriptions *subscription.Service
	Providers     *provider.Service
	Merchants     *merchant.Service
}

func newProcedureRouter(in proceduresIn) *rpc.Router {
	r := rpc.NewRouter(in.Logger, in.Results)
	r.Register(procedures.Delivery(in.Deliveries)...)
	r.Register(procedures.Payment(in.Payments)...)
	r.Register(procedures.Notification(in.Notifications)...)
	r.Register(procedures.Purchase(in.Purchases)...)
	r.Register(procedures.Subscription(in.Subscriptions)...)
	r.Register(procedures.Provider(in.Providers)...)
	r.Register(procedures.Merchant(in.Merchants)...)
	return r
}

type routerIn struct {
	dig.In
	Config     *config.Config
	Logger     logx.Logger
	Base       *handlers.Handlers
	Auth       *handlers.AuthHandler
	Merchant   *handlers.MerchantHandler
	Docs       *handlers.DocsHandler
	Site       *handlers.SiteHandler
	Procedures *rpc.Router
	RateLimit  *ratelimit.Middleware
	Tokens     *session.Manager
	Locales    locale.Set
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Logger:         in.Logger,
		Base:           in.Base,
		Auth:           in.Auth,
		Merchant:       in.Merchant,
		Docs:           in.Docs,
		Site:           in.Site,
		Procedures:     in.Procedures.Handler(),
		ValidateLimit:  in.RateLimit.Handler(),
		Metrics:        promhttp.Handler(),
		Tokens:         in.Tokens,
		Locales:        in.Locales,
		AllowedOrigins: in.Config.CORS.AllowedOrigins,
	})
}
