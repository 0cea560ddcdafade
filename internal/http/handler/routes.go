package handler

import (
	"github.com/gofiber/fiber/v2"

	"paperapi/internal/service"
	"paperapi/internal/storage"
)

// Options tune route registration.
type Options struct {
	// Uploads, when set, serves development-mode blobs under /uploads/*.
	Uploads storage.Storage
	// Limit guards mutating routes.
	Limit fiber.Handler
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.PaperService, opts Options) {
	limit := opts.Limit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	app.Get("/health", HealthCheck(svc))
	app.Get("/healthz", LivenessProbe())

	papers := app.Group("/papers")
	papers.Get("/", ListPapers(svc))
	// Optional id params let a missing id reach the handler and get a 400.
	papers.Get("/get/:id?", GetPaper(svc))
	papers.Delete("/delete/:id?", limit, DeletePaper(svc))
	papers.Post("/upload", limit, UploadPaper(svc))
	papers.Post("/track/:id?", limit, TrackPaper(svc))
	papers.Get("/:examType/:year", PapersByExamYear(svc))

	exams := app.Group("/exams")
	exams.Get("/metadata", ExamMetadata(svc))
	exams.Get("/latest", LatestPapers(svc))

	app.Get("/view-pdf/:id?", ViewPDF(svc))
	app.Get("/download/:id?", DownloadPaper(svc))

	if opts.Uploads != nil {
		app.Get("/uploads/*", ServeUploads(opts.Uploads))
	}
}
