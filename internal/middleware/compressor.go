package middleware

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/drstein77/storefront/internal/compress"
)

type (
	archiveKey struct{}
	entryKey   struct{}
)

// ArchiveType returns the archive type chosen for the request, zip by default.
func ArchiveType(ctx context.Context) string {
	if v, ok := ctx.Value(archiveKey{}).(string); ok {
		return v
	}
	return compress.Zip
}

// EntryName returns the archived file name DecompressRequestMiddleware read.
func EntryName(ctx context.Context) string {
	v, _ := ctx.Value(entryKey{}).(string)
	return v
}

// ArchiveTypeMiddleware reads the archiveType query parameter ("zip" or
// "tar", zip when missing or unknown) and stores it in the request context.
func ArchiveTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archiveType := r.URL.Query().Get("archiveType")
		if archiveType != compress.Tar && archiveType != compress.Zip {
			archiveType = compress.Zip
		}
		ctx := context.WithValue(r.Context(), archiveKey{}, archiveType)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DecompressRequestMiddleware replaces the request body with the first CSV
// file of the uploaded archive. Must run after ArchiveTypeMiddleware.
func DecompressRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cr, err := compress.NewReader(ArchiveType(r.Context()), r.Body)
		if errors.Is(err, compress.ErrTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer cr.Close()

		r.Body = cr
		ctx := context.WithValue(r.Context(), entryKey{}, cr.Name())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
