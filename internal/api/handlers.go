package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/streamline-io/streamline/internal/models"
	"github.com/streamline-io/streamline/internal/tmdb"
)

// SearchHandler searches one catalogue and records the top hit.
func (api *Api) SearchHandler(kind models.ContentKind) func(http.ResponseWriter, *http.Request, *models.User) {
	return func(w http.ResponseWriter, r *http.Request, user *models.User) {
		results, err := api.search.Search(r.Context(), user.ID, kind, chi.URLParam(r, "query"))
		if err != nil {
			api.writeServiceError(w, r, "search "+string(kind), err)
			return
		}
		api.writeOK(w, http.StatusOK, "content", results)
	}
}

func (api *Api) HistoryHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	history, err := api.search.List(r.Context(), user.ID)
	if err != nil {
		api.internalError(w, r, "list history", err)
		return
	}
	api.writeOK(w, http.StatusOK, "content", history)
}

func (api *Api) DeleteHistoryHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := api.search.Delete(r.Context(), user.ID, id); err != nil {
		api.internalError(w, r, "remove history", err)
		return
	}
	api.writeOK(w, http.StatusOK, "message", "Item removed from search history")
}

// TrendingHandler answers with one random title from today's trending list,
// or null content when the list is empty.
func (api *Api) TrendingHandler(kind models.ContentKind) func(http.ResponseWriter, *http.Request, *models.User) {
	return func(w http.ResponseWriter, r *http.Request, _ *models.User) {
		page, err := api.catalog.Trending(r.Context(), kind)
		if err != nil {
			api.internalError(w, r, "trending "+string(kind), err)
			return
		}

		var pick tmdb.Result
		if n := len(page.Results); n > 0 {
			pick = page.Results[api.pickIndex(n)]
		}
		api.writeOK(w, http.StatusOK, "content", pick)
	}
}

func (api *Api) TrailersHandler(kind models.ContentKind) func(http.ResponseWriter, *http.Request, *models.User) {
	return func(w http.ResponseWriter, r *http.Request, _ *models.User) {
		page, err := api.catalog.Trailers(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			api.writeLookupError(w, r, "trailers "+string(kind), err)
			return
		}
		api.writeOK(w, http.StatusOK, "trailers", page.Results)
	}
}

func (api *Api) DetailsHandler(kind models.ContentKind) func(http.ResponseWriter, *http.Request, *models.User) {
	return func(w http.ResponseWriter, r *http.Request, _ *models.User) {
		page, err := api.catalog.Details(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			api.writeLookupError(w, r, "details "+string(kind), err)
			return
		}
		api.writeOK(w, http.StatusOK, "content", json.RawMessage(page.Raw))
	}
}

func (api *Api) SimilarHandler(kind models.ContentKind) func(http.ResponseWriter, *http.Request, *models.User) {
	return func(w http.ResponseWriter, r *http.Request, _ *models.User) {
		page, err := api.catalog.Similar(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			api.internalError(w, r, "similar "+string(kind), err)
			return
		}
		api.writeOK(w, http.StatusOK, "similar", page.Results)
	}
}

func (api *Api) CategoryHandler(kind models.ContentKind) func(http.ResponseWriter, *http.Request, *models.User) {
	return func(w http.ResponseWriter, r *http.Request, _ *models.User) {
		page, err := api.catalog.Category(r.Context(), kind, chi.URLParam(r, "category"))
		if err != nil {
			api.internalError(w, r, "category "+string(kind), err)
			return
		}
		api.writeOK(w, http.StatusOK, "content", page.Results)
	}
}

// HomeHandler serves one of the public Netflix rows on the landing page.
func (api *Api) HomeHandler(kind models.ContentKind, region string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := api.catalog.Discover(r.Context(), kind, region)
		if err != nil {
			api.internalError(w, r, "home "+string(kind), err)
			return
		}
		api.writeOK(w, http.StatusOK, "content", page.Results)
	}
}

// writeLookupError maps an upstream 404 for a single title to 404.
func (api *Api) writeLookupError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if tmdb.IsNotFound(err) {
		api.writeError(w, http.StatusNotFound, "Content not found")
		return
	}
	api.internalError(w, r, op, err)
}
