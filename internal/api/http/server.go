package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fieldforce-backend/internal/security"
	"fieldforce-backend/internal/service"
)

// Services bundles everything the API surface needs.
type Services struct {
	Hierarchy    service.HierarchyService
	Wallet       service.WalletService
	Withdrawal   service.WithdrawalService
	Report       service.ReportService
	Notification service.NotificationService
}

type Server struct {
	httpServer *http.Server
	router     *mux.Router
}

func NewServer(addr string, tm security.TokenManager, svcs Services) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tm))

	hierarchy := NewHierarchyHandler(svcs.Hierarchy)
	wallet := NewWalletHandler(svcs.Wallet)
	withdrawal := NewWithdrawalHandler(svcs.Withdrawal)
	report := NewReportHandler(svcs.Report)
	notification := NewNotificationHandler(svcs.Notification)

	api.HandleFunc("/zones", hierarchy.CreateZone).Methods(http.MethodPost)
	api.HandleFunc("/zones", hierarchy.ListZones).Methods(http.MethodGet)
	api.HandleFunc("/zones/{id:[0-9]+}", hierarchy.GetZone).Methods(http.MethodGet)
	api.HandleFunc("/zones/{id:[0-9]+}/teams", hierarchy.ListZoneTeams).Methods(http.MethodGet)
	api.HandleFunc("/zones/{id:[0-9]+}/wallet", wallet.ZoneRollup).Methods(http.MethodGet)

	api.HandleFunc("/teams", hierarchy.CreateTeam).Methods(http.MethodPost)
	api.HandleFunc("/teams/{id:[0-9]+}", hierarchy.GetTeam).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id:[0-9]+}/members", hierarchy.ListTeamMembers).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id:[0-9]+}/summary", hierarchy.TeamSummary).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id:[0-9]+}/wallet", wallet.TeamRollup).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id:[0-9]+}/lead", hierarchy.SetTeamLead).Methods(http.MethodPut)

	api.HandleFunc("/members", hierarchy.CreateMember).Methods(http.MethodPost)
	api.HandleFunc("/members/assign", hierarchy.AssignMember).Methods(http.MethodPost)
	api.HandleFunc("/members/reassign", hierarchy.ReassignMember).Methods(http.MethodPost)
	api.HandleFunc("/members/{id:[0-9]+}/active", hierarchy.SetMemberActive).Methods(http.MethodPatch)
	api.HandleFunc("/members/{id:[0-9]+}/pin", withdrawal.SetPin).Methods(http.MethodPut)
	api.HandleFunc("/members/{id:[0-9]+}/wallet", wallet.GetStatement).Methods(http.MethodGet)
	api.HandleFunc("/members/{id:[0-9]+}/withdrawals", withdrawal.ListByMember).Methods(http.MethodGet)

	api.HandleFunc("/wallets/credit", wallet.Credit).Methods(http.MethodPost)
	api.HandleFunc("/wallets/debit", wallet.Debit).Methods(http.MethodPost)

	api.HandleFunc("/withdrawals", withdrawal.CreateRequest).Methods(http.MethodPost)
	api.HandleFunc("/withdrawals/pending", withdrawal.ListPending).Methods(http.MethodGet)
	api.HandleFunc("/withdrawals/{id:[0-9]+}/decision", withdrawal.Decide).Methods(http.MethodPost)
	api.HandleFunc("/withdrawals/{id:[0-9]+}/settle", withdrawal.Settle).Methods(http.MethodPost)

	api.HandleFunc("/reports/performance/{leaderId:[0-9]+}", report.Performance).Methods(http.MethodGet)

	api.HandleFunc("/notifications", notification.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notification.MarkAsRead).Methods(http.MethodPost)

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Router exposes the underlying mux, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
