package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/handlers"
)

// Handlers groups everything the router wires; keeps Register readable.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UsersHandler
	Health        *handlers.HealthHandler
	Positions     *handlers.PositionHandler
	SkillTests    *handlers.SkillTestHandler
	Requests      *handlers.RequestHandler
	PersonalInfos *handlers.PersonalInfoHandler
	Offers        *handlers.OfferHandler
	Filters       *handlers.FilterHandler
	Results       *handlers.ResultHandler
}

// Register wires all HTTP routes onto given Fiber app.
// authMW populates Locals(email/role); admin — поверх него.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler, admin fiber.Handler) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", h.Health.Health)
	api.Get("/ready", h.Health.Ready)

	a := api.Group("/auth")
	a.Post("/register", h.Auth.Register)
	a.Post("/login", h.Auth.Login)
	a.Get("/verify", authMW, h.Auth.Verify)
	a.Get("/current", authMW, h.Auth.Current)
	a.Post("/logout", authMW, h.Auth.Logout)

	u := api.Group("/users", authMW)
	u.Get("/getAll", admin, h.Users.GetAll)
	u.Get("/getByEmail/:email", h.Users.GetByEmail)
	u.Patch("/updateStatus/:email", admin, h.Users.UpdateStatus)

	p := api.Group("/positions", authMW)
	p.Post("/create", admin, h.Positions.Create)
	p.Patch("/update/:name", admin, h.Positions.Update)
	p.Get("/getAll", h.Positions.GetAll)

	st := api.Group("/skillTests", authMW)
	st.Post("/create", admin, h.SkillTests.Create)
	st.Delete("/delete/:name", admin, h.SkillTests.Delete)
	st.Get("/getAll", h.SkillTests.GetAll)
	st.Get("/getByName/:name", h.SkillTests.GetByName)

	r := api.Group("/requests", authMW)
	r.Post("/create", h.Requests.Create)
	r.Patch("/update", h.Requests.Update)
	r.Get("/getByEmail/:email", h.Requests.Get)
	r.Get("/getAllNotOffered", admin, h.Requests.GetNotOffered)

	pi := api.Group("/personalInfos", authMW)
	pi.Get("/getByEmail/:email", h.PersonalInfos.GetByEmail)
	pi.Patch("/update/:email", h.PersonalInfos.Submit)
	pi.Patch("/deleteFile/:email/:field", h.PersonalInfos.DeleteFile)

	o := api.Group("/offers", authMW)
	o.Post("/create", admin, h.Offers.Create)
	o.Get("/getByEmail/:email", h.Offers.GetByEmail)
	o.Patch("/update/:email", h.Offers.Update)
	o.Patch("/submit/:email/:testName", h.Offers.Submit)
	o.Patch("/dismiss/:email/:testName", h.Offers.Dismiss)

	f := api.Group("/filters", authMW, admin)
	f.Get("/getAllNotDone", h.Filters.GetAllNotDone)
	f.Get("/getByEmail/:email", h.Filters.GetByEmail)
	f.Patch("/setDone/:email", h.Filters.SetDone)
	f.Patch("/update/:email", h.Filters.Update)

	res := api.Group("/results", authMW)
	res.Post("/create", admin, h.Results.Create)
	res.Get("/getByEmail/:email", h.Results.GetByEmail)
}
