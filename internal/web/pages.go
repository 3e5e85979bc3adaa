package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"mealmuse/internal/auth"
	"mealmuse/internal/identity"
	"mealmuse/internal/journal"
	"mealmuse/internal/planner"
	"mealmuse/internal/shared"
)

// newPage builds the services page for the caller, with their list and
// journal when signed in.
func (s *Server) newPage(c echo.Context, tabID string) *pageData {
	id := auth.FromContext(c)
	p := &pageData{
		Title:      "MealMuse",
		Identity:   id,
		Tab:        normalizeTab(tabID),
		Tabs:       tabs,
		Moods:      journal.Moods,
		Highlights: festivalHighlights,
		Services:   services,
	}
	p.MealPlan.State = Idle
	p.Festival.State = Idle
	p.Finder.State = Idle
	p.Recipe.State = Idle

	if id.SignedIn {
		p.Shopping = s.shopping.Get(id.UserID)
		p.Journal = s.journal.Entries(id.UserID)
		p.MoodCounts = moodCounts(s.journal.MoodCounts(id.UserID))
	}
	return p
}

// settle moves a flow view to its end state. Validation problems stay
// inline on the form; any other failure becomes a generic toast.
func settle[F, R any](c echo.Context, p *pageData, v *flowView[F, R], res R, err error, failure string) {
	if err == nil {
		v.State = Success
		v.Result = res
		return
	}

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		v.State = Idle
		v.Errors = fieldErrors(verr)
		return
	}

	log := loggerFrom(c)
	log.Error().Err(err).Str("tab", p.Tab).Msg("flow failed")
	v.State = Failed
	p.Toast = failureToast(failure)
}

func (s *Server) index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", s.newPage(c, c.QueryParam("tab")))
}

func (s *Server) dashboard(c echo.Context) error {
	p := s.newPage(c, "")
	p.Title = "Dashboard"
	return c.Render(http.StatusOK, "dashboard.html", p)
}

func (s *Server) mealPlan(c echo.Context) error {
	p := s.newPage(c, tabMealPlan)
	var req planner.MealPlanRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	p.MealPlan.Form = req

	res, err := s.flows.GenerateMealPlan(c.Request().Context(), req)
	settle(c, p, &p.MealPlan, res, err, failMealPlan)
	return c.Render(http.StatusOK, "index.html", p)
}

func (s *Server) festiveFoods(c echo.Context) error {
	p := s.newPage(c, tabFestiveFoods)
	var req planner.FestivalRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	p.Festival.Form = req

	res, err := s.flows.SuggestFestivalMeals(c.Request().Context(), req)
	settle(c, p, &p.Festival, res, err, failFestival)
	return c.Render(http.StatusOK, "index.html", p)
}

// findRecipes plans a day of meals around whatever is in the fridge.
func (s *Server) findRecipes(c echo.Context) error {
	p := s.newPage(c, tabRecipeFinder)
	var form finderForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	p.Finder.Form = form

	res, err := s.flows.GenerateMealPlan(c.Request().Context(), planner.MealPlanRequest{
		Mood:                 "creative",
		DietaryGoals:         "using up what I have",
		AvailableIngredients: form.AvailableIngredients,
	})
	settle(c, p, &p.Finder, res, err, failFinder)
	return c.Render(http.StatusOK, "index.html", p)
}

func (s *Server) lookupRecipe(c echo.Context) error {
	var form recipeForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	p := s.newPage(c, form.Tab)
	form.Tab = p.Tab
	p.Recipe.Form = form

	res, err := s.flows.GetRecipe(c.Request().Context(), planner.RecipeRequest{DishName: form.DishName})
	settle(c, p, &p.Recipe, res, err, failRecipe)
	return c.Render(http.StatusOK, "index.html", p)
}

func (s *Server) addShoppingItem(c echo.Context) error {
	id := auth.FromContext(c)
	item := c.FormValue("item")
	tab := tabShoppingList
	if t := c.FormValue("tab"); t != "" {
		tab = normalizeTab(t)
	}

	if _, err := s.shopping.Add(id.UserID, item); err != nil {
		var verr *shared.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		p := s.newPage(c, tabShoppingList)
		p.ShoppingErrors = fieldErrors(verr)
		return c.Render(http.StatusOK, "index.html", p)
	}
	return c.Redirect(http.StatusSeeOther, "/?tab="+tab)
}

func (s *Server) removeShoppingItem(c echo.Context) error {
	s.shopping.Remove(auth.FromContext(c).UserID, c.FormValue("item"))
	return c.Redirect(http.StatusSeeOther, "/?tab="+tabShoppingList)
}

func (s *Server) clearShoppingList(c echo.Context) error {
	s.shopping.Clear(auth.FromContext(c).UserID)
	return c.Redirect(http.StatusSeeOther, "/?tab="+tabShoppingList)
}

// addRecipeToShoppingList copies the ingredients of an already fetched
// recipe; nothing is generated here.
func (s *Server) addRecipeToShoppingList(c echo.Context) error {
	var form addRecipeForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	s.shopping.AddAll(auth.FromContext(c).UserID, form.Ingredients)

	p := s.newPage(c, form.Tab)
	p.Toast = &toast{
		Title:       "Ingredients Added!",
		Description: fmt.Sprintf("Ingredients for %s have been added to your shopping list.", form.DishName),
	}
	return c.Render(http.StatusOK, "index.html", p)
}

func (s *Server) addJournalEntry(c echo.Context) error {
	var req journal.EntryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if _, err := s.journal.Add(auth.FromContext(c).UserID, req); err != nil {
		var verr *shared.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		p := s.newPage(c, tabJournal)
		p.JournalForm = req
		p.JournalErrors = fieldErrors(verr)
		return c.Render(http.StatusOK, "index.html", p)
	}
	return c.Redirect(http.StatusSeeOther, "/?tab="+tabJournal)
}

func (s *Server) signInPage(c echo.Context) error {
	p := s.newPage(c, "")
	p.Title = "Sign In"
	return c.Render(http.StatusOK, "signin.html", p)
}

func (s *Server) signUpPage(c echo.Context) error {
	p := s.newPage(c, "")
	p.Title = "Sign Up"
	return c.Render(http.StatusOK, "signup.html", p)
}

func (s *Server) signIn(c echo.Context) error {
	var creds identity.Credentials
	if err := c.Bind(&creds); err != nil {
		return err
	}

	acct, err := s.accounts.SignIn(c.Request().Context(), creds.Email, creds.Password)
	if err != nil {
		return s.authFailed(c, "signin.html", "Sign In", creds.Email, err)
	}
	if _, err := s.sessions.SignIn(c.Response(), c.Request(), acct.UID, acct.Email); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) signUp(c echo.Context) error {
	var creds identity.Credentials
	if err := c.Bind(&creds); err != nil {
		return err
	}

	acct, err := s.accounts.CreateUser(c.Request().Context(), creds.Email, creds.Password)
	if err != nil {
		return s.authFailed(c, "signup.html", "Sign Up", creds.Email, err)
	}
	if _, err := s.sessions.SignIn(c.Response(), c.Request(), acct.UID, acct.Email); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) authFailed(c echo.Context, page, title, email string, err error) error {
	p := s.newPage(c, "")
	p.Title = title
	p.AuthForm.Email = email

	var verr *shared.ValidationError
	var ierr *shared.IdentityError
	switch {
	case errors.As(err, &verr):
		p.AuthErrors = fieldErrors(verr)
	case errors.As(err, &ierr):
		p.Toast = failureToast(ierr.Message)
	default:
		return err
	}
	return c.Render(http.StatusOK, page, p)
}

func (s *Server) signOut(c echo.Context) error {
	if err := s.sessions.SignOut(c.Response(), c.Request()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
