package api

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger routes chi's access log through the structured logger.
func (api *Api) requestLogger() func(http.Handler) http.Handler {
	return middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(api.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	})
}

// StaticHandler serves the built frontend, falling back to index.html so
// client-side routes resolve.
func (api *Api) StaticHandler(w http.ResponseWriter, r *http.Request) {
	dir := api.Config.Static.Dir
	name := path.Clean("/" + r.URL.Path)

	if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err == nil && !info.IsDir() {
		http.ServeFile(w, r, filepath.Join(dir, filepath.FromSlash(name)))
		return
	}
	http.ServeFile(w, r, filepath.Join(dir, "index.html"))
}

// Avatar redirects to a presigned bucket URL when asset storage is
// configured and otherwise serves the file from the static dir. It handles
// both /avatars/{file} and the bare avatar paths stored on users.
func (api *Api) Avatar(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if file == "" {
		file = r.URL.Path
	}
	file = path.Base(file)
	if file == "." || file == "/" || strings.HasPrefix(file, "..") {
		api.writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	if api.assets != nil {
		url, err := api.assets.PresignAsset(r.Context(), "/"+file)
		if err != nil {
			api.internalError(w, r, "presign avatar", err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	full := filepath.Join(api.Config.Static.Dir, file)
	if _, err := os.Stat(full); err != nil {
		api.writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	http.ServeFile(w, r, full)
}
