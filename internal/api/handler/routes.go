package handler

import (
	"net/http"

	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/api/handler/router"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/branding"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/dealing"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/gating"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/reconciling"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Leaderboard(reconciler *reconciling.Service) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/leaderboard",
			Method:  http.MethodGet,
			Handler: GetLeaderboard(reconciler),
		},
		{
			Path:    "/v1/stats",
			Method:  http.MethodGet,
			Handler: GetLeaderboardStats(reconciler),
		},
	}
}

func Deals(service dealing.DealService, outlets gating.OutletService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/deals",
			Method:  http.MethodGet,
			Handler: ListDeals(service),
		},
		{
			Path:    "/v1/deals",
			Method:  http.MethodPost,
			Handler: SubmitDeal(service, outlets),
		},
		{
			Path:    "/v1/deals/export",
			Method:  http.MethodGet,
			Handler: ExportDeals(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodPut,
			Handler: UpdateDeal(service),
		},
		{
			Path:    "/v1/deals/:id",
			Method:  http.MethodDelete,
			Handler: DeleteDeal(service),
		},
	}
}

func Outlets(service gating.OutletService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/outlets",
			Method:  http.MethodGet,
			Handler: ListOutlets(service),
		},
		{
			Path:    "/v1/outlets",
			Method:  http.MethodPost,
			Handler: CreateOutlet(service),
		},
		{
			Path:    "/v1/outlets/:id",
			Method:  http.MethodPut,
			Handler: UpdateOutlet(service),
		},
		{
			Path:    "/v1/outlets/:id",
			Method:  http.MethodDelete,
			Handler: DeleteOutlet(service),
		},
	}
}

func Brands(service branding.BrandService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/brands",
			Method:  http.MethodGet,
			Handler: ListBrands(service),
		},
		{
			Path:    "/v1/brands",
			Method:  http.MethodPost,
			Handler: CreateBrand(service),
		},
		{
			Path:    "/v1/brands/:id",
			Method:  http.MethodDelete,
			Handler: DeleteBrand(service),
		},
	}
}

func Form(outlets gating.OutletService, brands branding.BrandService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/form/init",
			Method:  http.MethodGet,
			Handler: InitForm(outlets, brands),
		},
	}
}

func RealtimeStream(
	reconciler *reconciling.Service,
	deals dealing.DealService,
	signals *stream.Broker[domain.Signal],
) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/realtime",
			Method:  http.MethodGet,
			Handler: Realtime(reconciler, deals, signals),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
