// Package web serves the MealMuse pages and JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"mealmuse/internal/auth"
	"mealmuse/internal/identity"
	"mealmuse/internal/journal"
	"mealmuse/internal/metrics"
	"mealmuse/internal/planner"
	"mealmuse/internal/shopping"
)

// Flows are the generation use cases.
type Flows interface {
	GenerateMealPlan(ctx context.Context, req planner.MealPlanRequest) (*planner.MealPlanResult, error)
	SuggestFestivalMeals(ctx context.Context, req planner.FestivalRequest) (*planner.FestivalResult, error)
	GetRecipe(ctx context.Context, req planner.RecipeRequest) (*planner.RecipeResult, error)
}

// Accounts creates users and checks credentials.
type Accounts interface {
	CreateUser(ctx context.Context, email, password string) (identity.Account, error)
	SignIn(ctx context.Context, email, password string) (identity.Account, error)
}

// Deps are the collaborators of a Server. Metrics may be nil.
type Deps struct {
	Flows        Flows
	Accounts     Accounts
	Sessions     *auth.Sessions
	Shopping     *shopping.Repository
	Journal      *journal.Store
	Metrics      *metrics.Store
	DatabasePath string
	Log          zerolog.Logger
}

// Server is the HTTP front end.
type Server struct {
	echo      *echo.Echo
	flows     Flows
	accounts  Accounts
	sessions  *auth.Sessions
	shopping  *shopping.Repository
	journal   *journal.Store
	metrics   *metrics.Store
	dbPath    string
	log       zerolog.Logger
	startedAt time.Time
}

// NewServer wires routes and middleware.
func NewServer(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newRenderer()

	s := &Server{
		echo:      e,
		flows:     d.Flows,
		accounts:  d.Accounts,
		sessions:  d.Sessions,
		shopping:  d.Shopping,
		journal:   d.Journal,
		metrics:   d.Metrics,
		dbPath:    d.DatabasePath,
		log:       d.Log,
		startedAt: time.Now(),
	}

	e.Use(middleware.Recover())
	e.Use(requestLogger(d.Log))
	e.Use(auth.Middleware(d.Sessions))

	s.registerPages()
	s.registerAPI()
	return s
}

func (s *Server) registerPages() {
	e := s.echo
	e.GET("/", s.index)
	e.GET("/signin", s.signInPage)
	e.POST("/signin", s.signIn)
	e.GET("/signup", s.signUpPage)
	e.POST("/signup", s.signUp)
	e.POST("/signout", s.signOut)
	e.POST("/recipe-finder", s.findRecipes)
	e.POST("/recipe", s.lookupRecipe)

	gated := e.Group("", requireSession)
	gated.GET("/dashboard", s.dashboard)
	gated.POST("/meal-plan", s.mealPlan)
	gated.POST("/festive-foods", s.festiveFoods)
	gated.POST("/shopping-list/add", s.addShoppingItem)
	gated.POST("/shopping-list/remove", s.removeShoppingItem)
	gated.POST("/shopping-list/clear", s.clearShoppingList)
	gated.POST("/shopping-list/add-recipe", s.addRecipeToShoppingList)
	gated.POST("/journal", s.addJournalEntry)
}

func (s *Server) registerAPI() {
	api := s.echo.Group("/api")
	api.GET("/health", s.apiHealth)
	api.POST("/recipe", s.apiRecipe)
	api.POST("/users", s.apiCreateUser)
	api.POST("/session", s.apiSignIn)
	api.DELETE("/session", s.apiSignOut)

	gated := api.Group("", requireSessionAPI)
	gated.POST("/meal-plan", s.apiMealPlan)
	gated.POST("/festival", s.apiFestival)
	gated.GET("/shopping-list", s.apiShoppingList)
	gated.POST("/shopping-list", s.apiAddShoppingItem)
	gated.DELETE("/shopping-list", s.apiRemoveShoppingItem)
	gated.POST("/shopping-list/clear", s.apiClearShoppingList)
	gated.GET("/journal", s.apiJournal)
	gated.POST("/journal", s.apiAddJournalEntry)
}

// Echo exposes the router so other front ends can mount handlers.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP lets the Server be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("web server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
