package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"familycheckin/internal/delivery/http/controllers"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	CheckIn   *controllers.CheckInController
	Checkout  *controllers.CheckoutController
	Family    *controllers.FamilyController
	Event     *controllers.EventController
	Person    *controllers.PersonController
	Settings  *controllers.SettingsController
	StaffAuth *controllers.StaffAuthController
	Health    *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// requireAuth wraps the staff-only handlers.
func NewRouter(c Controllers, requireAuth func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Kiosk
	mux.HandleFunc("POST /checkin", c.CheckIn.CheckIn)
	mux.HandleFunc("GET /checkin/status", c.CheckIn.Status)
	mux.HandleFunc("GET /checkout", c.Checkout.LookupCode)
	mux.HandleFunc("POST /checkout", c.Checkout.Redeem)
	mux.HandleFunc("GET /families", c.Family.Search)
	mux.HandleFunc("GET /families/{familyID}", c.Family.Get)
	mux.HandleFunc("GET /settings", c.Settings.GetSettings)

	// Staff
	mux.HandleFunc("POST /auth/staff", c.StaffAuth.Unlock)
	mux.HandleFunc("POST /families", requireAuth(c.Family.Create))
	mux.HandleFunc("PATCH /families/{familyID}", requireAuth(c.Family.Update))
	mux.HandleFunc("DELETE /families/{familyID}", requireAuth(c.Family.Delete))
	mux.HandleFunc("POST /families/{familyID}/members", requireAuth(c.Family.AddMember))
	mux.HandleFunc("GET /people", requireAuth(c.Person.List))
	mux.HandleFunc("POST /people", requireAuth(c.Person.Create))
	mux.HandleFunc("GET /events", requireAuth(c.Event.ListEvents))
	mux.HandleFunc("POST /events", requireAuth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", requireAuth(c.Event.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(c.Event.DeleteEvent))
	mux.HandleFunc("PUT /settings", requireAuth(c.Settings.UpdateSettings))

	mux.HandleFunc("GET /health", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
