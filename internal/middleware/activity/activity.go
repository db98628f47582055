// Package activity records successful writes made through the API.
package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/middleware/auth"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const maxCapture = 64 << 10

type Recorder interface {
	Record(ctx context.Context, a storage.Activity) error
}

// skipped prefixes do not change any document.
var skipped = []string{"/api/wizards/", "/api/refresh/"}

// aliases map API prefixes that are not collection names.
var aliases = map[string]string{
	"stock": storage.CollProducts,
}

// New logs mutating requests answered with a status below 400. It must run
// after auth.JWT.
func New(log *slog.Logger, rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mutating(r.Method) || skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var body bytes.Buffer
			if r.Method == http.MethodPost {
				ww.Tee(&limitedWriter{buf: &body, max: maxCapture})
			}

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusBadRequest {
				return
			}

			a := describe(r, status)
			if a.DocumentID == "" {
				a.DocumentID = createdID(body.Bytes())
			}
			if c, ok := auth.User(r.Context()); ok {
				a.UserID = c.Subject
				a.UserName = c.Name
			}

			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
			defer cancel()

			if err := rec.Record(ctx, a); err != nil {
				log.Error("failed to record activity",
					slog.String("op", "middleware.activity.New"),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
			}
		})
	}
}

func mutating(method string) bool {
	return slices.Contains([]string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}, method)
}

func skip(path string) bool {
	for _, p := range skipped {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// describe derives collection, document and action from /api/<...> paths.
// The collection is the first segment naming one; the id follows it and any
// further segment names the action.
func describe(r *http.Request, status int) storage.Activity {
	a := storage.Activity{
		Method: r.Method,
		Path:   r.URL.Path,
		Status: status,
		Action: verb(r.Method),
	}

	segs := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return a
	}

	at := -1
	for i, s := range segs {
		if c, ok := aliases[s]; ok {
			a.Collection, at = c, i
			break
		}
		if slices.Contains(storage.Collections, s) {
			a.Collection, at = s, i
			break
		}
	}
	if at < 0 {
		a.Collection = segs[0]
		if len(segs) > 1 {
			a.Action = segs[len(segs)-1]
		}
		return a
	}

	if at+1 < len(segs) {
		a.DocumentID = segs[at+1]
	}
	if at+2 < len(segs) {
		a.Action = segs[len(segs)-1]
	}
	return a
}

func verb(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodDelete:
		return "delete"
	default:
		return "update"
	}
}

func createdID(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var doc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	return doc.ID
}

// limitedWriter keeps the first max bytes and drops the rest.
type limitedWriter struct {
	buf *bytes.Buffer
	max int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if room := l.max - l.buf.Len(); room > 0 {
		l.buf.Write(p[:min(room, len(p))])
	}
	return len(p), nil
}
