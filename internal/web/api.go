package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mealmuse/internal/auth"
	"mealmuse/internal/identity"
	"mealmuse/internal/journal"
	"mealmuse/internal/metrics"
	"mealmuse/internal/planner"
	"mealmuse/internal/shared"
	"mealmuse/internal/shopping"
)

type errorBody struct {
	Title   string `json:"title,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// apiError maps the error taxonomy onto status codes. Generation detail is
// logged, never returned.
func apiError(c echo.Context, err error, failure string) error {
	var verr *shared.ValidationError
	var gerr *shared.GenerationError
	var ierr *shared.IdentityError
	var herr *echo.HTTPError

	if failure == "" {
		failure = "An unexpected error occurred."
	}

	log := loggerFrom(c)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, verr)
	case errors.As(err, &gerr):
		log.Error().Err(err).Str("op", gerr.Op).Msg("generation failed")
		return c.JSON(http.StatusBadGateway, errorBody{Title: toastFailureTitle, Message: failure})
	case errors.As(err, &ierr):
		return c.JSON(http.StatusBadRequest, errorBody{Code: ierr.Code, Message: ierr.Message})
	case errors.As(err, &herr):
		return c.JSON(herr.Code, errorBody{Message: http.StatusText(herr.Code)})
	default:
		log.Error().Err(err).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, errorBody{Title: toastFailureTitle, Message: failure})
	}
}

func (s *Server) apiMealPlan(c echo.Context) error {
	var req planner.MealPlanRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, err, failMealPlan)
	}
	res, err := s.flows.GenerateMealPlan(c.Request().Context(), req)
	if err != nil {
		return apiError(c, err, failMealPlan)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) apiFestival(c echo.Context) error {
	var req planner.FestivalRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, err, failFestival)
	}
	res, err := s.flows.SuggestFestivalMeals(c.Request().Context(), req)
	if err != nil {
		return apiError(c, err, failFestival)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) apiRecipe(c echo.Context) error {
	var req planner.RecipeRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, err, failRecipe)
	}
	res, err := s.flows.GetRecipe(c.Request().Context(), req)
	if err != nil {
		return apiError(c, err, failRecipe)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) apiCreateUser(c echo.Context) error {
	var creds identity.Credentials
	if err := c.Bind(&creds); err != nil {
		return apiError(c, err, "")
	}
	acct, err := s.accounts.CreateUser(c.Request().Context(), creds.Email, creds.Password)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(http.StatusCreated, acct)
}

type sessionResponse struct {
	Token string `json:"token"`
	identity.Account
}

func (s *Server) apiSignIn(c echo.Context) error {
	var creds identity.Credentials
	if err := c.Bind(&creds); err != nil {
		return apiError(c, err, "")
	}
	acct, err := s.accounts.SignIn(c.Request().Context(), creds.Email, creds.Password)
	if err != nil {
		return apiError(c, err, "")
	}
	token, err := s.sessions.SignIn(c.Response(), c.Request(), acct.UID, acct.Email)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Account: acct})
}

func (s *Server) apiSignOut(c echo.Context) error {
	if err := s.sessions.SignOut(c.Response(), c.Request()); err != nil {
		return apiError(c, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) apiShoppingList(c echo.Context) error {
	return c.JSON(http.StatusOK, s.shopping.Get(auth.FromContext(c).UserID))
}

func (s *Server) apiAddShoppingItem(c echo.Context) error {
	var req shopping.ItemRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, err, "")
	}
	list, err := s.shopping.Add(auth.FromContext(c).UserID, req.Item)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(http.StatusCreated, list)
}

func (s *Server) apiRemoveShoppingItem(c echo.Context) error {
	item := c.QueryParam("item")
	if item == "" {
		var req shopping.ItemRequest
		if err := c.Bind(&req); err != nil {
			return apiError(c, err, "")
		}
		item = req.Item
	}
	return c.JSON(http.StatusOK, s.shopping.Remove(auth.FromContext(c).UserID, item))
}

func (s *Server) apiClearShoppingList(c echo.Context) error {
	id := auth.FromContext(c)
	s.shopping.Clear(id.UserID)
	return c.JSON(http.StatusOK, s.shopping.Get(id.UserID))
}

type journalResponse struct {
	Entries    []journal.Entry      `json:"entries"`
	MoodCounts map[journal.Mood]int `json:"moodCounts"`
}

func (s *Server) apiJournal(c echo.Context) error {
	id := auth.FromContext(c)
	return c.JSON(http.StatusOK, journalResponse{
		Entries:    s.journal.Entries(id.UserID),
		MoodCounts: s.journal.MoodCounts(id.UserID),
	})
}

func (s *Server) apiAddJournalEntry(c echo.Context) error {
	var req journal.EntryRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, err, "")
	}
	entry, err := s.journal.Add(auth.FromContext(c).UserID, req)
	if err != nil {
		return apiError(c, err, "")
	}
	return c.JSON(http.StatusCreated, entry)
}

type healthResponse struct {
	metrics.SysHealth
	Usage []metrics.DailyUsage `json:"usage,omitempty"`
}

func (s *Server) apiHealth(c echo.Context) error {
	resp := healthResponse{SysHealth: metrics.GetSysHealth(s.startedAt, s.dbPath)}
	if s.metrics != nil {
		usage, err := s.metrics.GetDailyUsage(7)
		if err != nil {
			log := loggerFrom(c)
			log.Warn().Err(err).Msg("failed to read usage metrics")
		}
		resp.Usage = usage
	}
	return c.JSON(http.StatusOK, resp)
}
