// Package storage stores files on S3 or any compatible service and hands
// out public or signed URLs for them. Content types come from magic bytes,
// keys are generated sortable IDs, and uploads can be validated before a
// single byte leaves the process.
//
// # Setup
//
//	store, err := storage.New(storage.Config{
//		Bucket:    os.Getenv("STORAGE_BUCKET"),
//		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
//		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
//		Endpoint:  "http://localhost:9000", // MinIO; omit for AWS
//		PathStyle: true,
//	})
//
// Register it on the application with anvil.WithStorage(store); handlers
// then reach it through c.Upload, c.Download, c.DeleteFile, and c.FileURL.
//
// # Uploading
//
// Form uploads go through PutFile, which validates before storing:
//
//	_, fh, _ := c.FormFile("avatar")
//	info, err := storage.PutFile(c.Context(), store, fh,
//		storage.WithTenant(teamID),
//		storage.WithPrefix("avatars"),
//		storage.WithValidation(storage.MaxSize(5<<20), storage.ImageOnly()),
//	)
//	if err != nil {
//		var verr *storage.FileValidationError
//		if errors.As(err, &verr) {
//			// verr.Code and verr.Details are ready for a form error
//		}
//	}
//
// Keys follow {tenant}/{prefix}/{id}{ext} with the extension derived from
// the detected type, never from the client's filename.
//
// # URLs
//
// URL respects the configured default ACL: public buckets get plain links,
// private ones get signed links good for DefaultURLExpiry. Options force
// either behavior:
//
//	link, err := store.URL(ctx, info.Key, storage.WithSigned(time.Hour))
//	link, err := store.URL(ctx, info.Key, storage.WithDownload("report.pdf"))
//
// Operational failures wrap the package sentinels (ErrNotFound,
// ErrUploadFailed, ErrAccessDenied, ...), so callers branch with errors.Is
// without importing AWS types.
package storage
