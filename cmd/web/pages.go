package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/crucial707/stockroom/internal/models"
)

type web struct {
	api   *apiClient
	views *renderer
}

// page starts the template data every layout page needs.
func page(r *http.Request, active string) map[string]any {
	s := sessionFrom(r.Context())
	return map[string]any{
		"User":    s.User,
		"IsAdmin": s.IsAdmin(),
		"Active":  active,
	}
}

func token(r *http.Request) string {
	if s := sessionFrom(r.Context()); s != nil {
		return s.Token
	}
	return ""
}

// errorText turns an API error into something to show next to a form.
func errorText(err error) string {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		msg := apiErr.Error()
		if len(apiErr.Fields) > 0 {
			parts := make([]string, 0, len(apiErr.Fields))
			for k, v := range apiErr.Fields {
				parts = append(parts, k+" "+v)
			}
			sort.Strings(parts)
			msg += ": " + strings.Join(parts, ", ")
		}
		return msg
	}
	return err.Error()
}

// formFailed re-renders a page with err shown next to the named form.
func (a *web) formFailed(w http.ResponseWriter, r *http.Request, err error, form string, show func(http.ResponseWriter, *http.Request, map[string]string)) {
	if errors.Is(err, errUnauthorized) {
		a.expired(w, r)
		return
	}
	show(w, r, map[string]string{form: errorText(err)})
}

// ==========================
// Login / Logout
// ==========================

func (a *web) loginForm(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	a.views.render(w, http.StatusOK, "login.html", map[string]any{"Next": r.URL.Query().Get("next")})
}

func (a *web) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))
	data := map[string]any{"Email": email, "Next": next}

	if email == "" || password == "" {
		data["Error"] = "Email and password are required"
		a.views.render(w, http.StatusOK, "login.html", data)
		return
	}

	var out struct {
		Token string `json:"token"`
	}
	err := a.api.do(r.Context(), http.MethodPost, "/api/auth/signin", "",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		data["Error"] = errorText(err)
		a.views.render(w, http.StatusOK, "login.html", data)
		return
	}

	setCookie(w, out.Token)
	http.Redirect(w, r, next, http.StatusFound)
}

func (a *web) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.api.do(r.Context(), http.MethodPost, "/api/auth/logout", "", nil, nil); err != nil {
		slog.Warn("logout call failed", "error", err)
	}
	clearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// safeNext only allows redirects to local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}

// ==========================
// Dashboard
// ==========================

// dashboard fetches every count in parallel. A failed fetch is logged and its
// count stays at zero; only an expired token aborts the page.
func (a *web) dashboard(w http.ResponseWriter, r *http.Request) {
	tok := token(r)
	var (
		sections, items, employees, logs int
		lowStock                         []models.Item
	)
	g, ctx := errgroup.WithContext(r.Context())

	count := func(path string, dst *int) {
		g.Go(func() error {
			var list []json.RawMessage
			if err := a.api.do(ctx, http.MethodGet, path, tok, nil, &list); err != nil {
				if errors.Is(err, errUnauthorized) {
					return err
				}
				slog.Warn("dashboard fetch failed", "path", path, "error", err)
				return nil
			}
			*dst = len(list)
			return nil
		})
	}
	count("/api/sections", &sections)
	count("/api/items", &items)
	count("/api/employees", &employees)
	count("/api/logs", &logs)
	g.Go(func() error {
		if err := a.api.do(ctx, http.MethodGet, "/api/items/lowstock", tok, nil, &lowStock); err != nil {
			if errors.Is(err, errUnauthorized) {
				return err
			}
			slog.Warn("dashboard fetch failed", "path", "/api/items/lowstock", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.expired(w, r)
		return
	}

	data := page(r, "dashboard")
	data["Sections"] = sections
	data["Items"] = items
	data["Employees"] = employees
	data["Logs"] = logs
	data["LowStock"] = lowStock
	a.views.render(w, http.StatusOK, "dashboard.html", data)
}

// ==========================
// Sections
// ==========================

func (a *web) sections(w http.ResponseWriter, r *http.Request) {
	a.showSections(w, r, nil)
}

func (a *web) showSections(w http.ResponseWriter, r *http.Request, formErrs map[string]string) {
	data := page(r, "sections")
	data["FormErrors"] = formErrs

	var list []models.Section
	if err := a.api.do(r.Context(), http.MethodGet, "/api/sections", token(r), nil, &list); err != nil {
		if errors.Is(err, errUnauthorized) {
			a.expired(w, r)
			return
		}
		data["Error"] = errorText(err)
	}
	data["Sections"] = list
	a.views.render(w, http.StatusOK, "sections.html", data)
}

func (a *web) createSection(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	body := map[string]string{
		"name":        strings.TrimSpace(r.FormValue("name")),
		"description": strings.TrimSpace(r.FormValue("description")),
	}
	if err := a.api.do(r.Context(), http.MethodPost, "/api/sections", token(r), body, nil); err != nil {
		a.formFailed(w, r, err, "create", a.showSections)
		return
	}
	http.Redirect(w, r, "/sections", http.StatusFound)
}

func (a *web) sectionDetail(w http.ResponseWriter, r *http.Request) {
	a.showSection(w, r, nil)
}

func (a *web) showSection(w http.ResponseWriter, r *http.Request, formErrs map[string]string) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	tok := token(r)
	data := page(r, "sections")
	data["FormErrors"] = formErrs

	var (
		sections []models.Section
		items    []models.Item
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return a.api.do(ctx, http.MethodGet, "/api/sections", tok, nil, &sections)
	})
	g.Go(func() error {
		return a.api.do(ctx, http.MethodGet, "/api/items/section/"+strconv.Itoa(id), tok, nil, &items)
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, errUnauthorized) {
			a.expired(w, r)
			return
		}
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		data["Error"] = errorText(err)
	}

	for _, s := range sections {
		if s.ID == id {
			data["Section"] = s
		}
	}
	if data["Section"] == nil && data["Error"] == nil {
		http.NotFound(w, r)
		return
	}
	data["SectionID"] = id
	data["Items"] = items
	a.views.render(w, http.StatusOK, "section_detail.html", data)
}

func (a *web) deleteSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.api.do(r.Context(), http.MethodDelete, "/api/sections/"+id, token(r), nil, nil); err != nil {
		a.formFailed(w, r, err, "section", a.showSection)
		return
	}
	http.Redirect(w, r, "/sections", http.StatusFound)
}

// ==========================
// Items
// ==========================

func (a *web) addItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	count, err := strconv.Atoi(strings.TrimSpace(r.FormValue("availableCount")))
	if err != nil {
		a.showSection(w, r, map[string]string{"add": "Quantity must be a whole number"})
		return
	}
	body := map[string]any{
		"itemname":       strings.TrimSpace(r.FormValue("itemname")),
		"availableCount": count,
	}
	if err := a.api.do(r.Context(), http.MethodPost, "/api/items/section/"+id, token(r), body, nil); err != nil {
		a.formFailed(w, r, err, "add", a.showSection)
		return
	}
	http.Redirect(w, r, "/sections/"+id, http.StatusFound)
}

// adjustItem backs the +/- buttons; the API clamps the count at zero.
func (a *web) adjustItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id, itemID := chi.URLParam(r, "id"), chi.URLParam(r, "itemId")
	delta, err := strconv.Atoi(r.FormValue("delta"))
	if err != nil {
		a.showSection(w, r, map[string]string{"item-" + itemID: "invalid quantity change"})
		return
	}
	path := "/api/items/section/" + id + "/" + itemID + "/adjust"
	if err := a.api.do(r.Context(), http.MethodPost, path, token(r), map[string]int{"delta": delta}, nil); err != nil {
		a.formFailed(w, r, err, "item-"+itemID, a.showSection)
		return
	}
	http.Redirect(w, r, "/sections/"+id, http.StatusFound)
}

func (a *web) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, itemID := chi.URLParam(r, "id"), chi.URLParam(r, "itemId")
	if err := a.api.do(r.Context(), http.MethodDelete, "/api/items/section/"+id+"/"+itemID, token(r), nil, nil); err != nil {
		a.formFailed(w, r, err, "item-"+itemID, a.showSection)
		return
	}
	http.Redirect(w, r, "/sections/"+id, http.StatusFound)
}

// ==========================
// Employees
// ==========================

func (a *web) employees(w http.ResponseWriter, r *http.Request) {
	a.showEmployees(w, r, nil)
}

func (a *web) showEmployees(w http.ResponseWriter, r *http.Request, formErrs map[string]string) {
	data := page(r, "employees")
	data["FormErrors"] = formErrs

	var list []models.User
	if err := a.api.do(r.Context(), http.MethodGet, "/api/employees", token(r), nil, &list); err != nil {
		if errors.Is(err, errUnauthorized) {
			a.expired(w, r)
			return
		}
		data["Error"] = errorText(err)
	}
	data["Employees"] = list
	a.views.render(w, http.StatusOK, "employees.html", data)
}

func (a *web) addEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	body := map[string]string{
		"username": strings.TrimSpace(r.FormValue("username")),
		"email":    strings.TrimSpace(r.FormValue("email")),
		"password": r.FormValue("password"),
		"role":     r.FormValue("role"),
	}
	if err := a.api.do(r.Context(), http.MethodPost, "/api/auth/signup", "", body, nil); err != nil {
		a.formFailed(w, r, err, "add", a.showEmployees)
		return
	}
	http.Redirect(w, r, "/employees", http.StatusFound)
}

func (a *web) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.api.do(r.Context(), http.MethodDelete, "/api/auth/users/"+id, token(r), nil, nil); err != nil {
		a.formFailed(w, r, err, "employee-"+id, a.showEmployees)
		return
	}
	http.Redirect(w, r, "/employees", http.StatusFound)
}

// ==========================
// Logs
// ==========================

func (a *web) logs(w http.ResponseWriter, r *http.Request) {
	data := page(r, "logs")
	var entries []models.LogEntry
	if err := a.api.do(r.Context(), http.MethodGet, "/api/logs", token(r), nil, &entries); err != nil {
		if errors.Is(err, errUnauthorized) {
			a.expired(w, r)
			return
		}
		data["Error"] = errorText(err)
	}
	data["Logs"] = entries
	a.views.render(w, http.StatusOK, "logs.html", data)
}
