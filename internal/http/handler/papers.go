package handler

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"paperapi/internal/service"
)

// Messages returned to clients.
const (
	msgIDRequired    = "Paper ID is required"
	msgNotFound      = "Paper not found"
	msgFetchFailed   = "Failed to fetch paper"
	msgDeleteFailed  = "Failed to delete paper"
	msgDeleted       = "Paper deleted successfully"
	msgMissingFields = "Missing required fields"
	msgUploadFailed  = "Failed to upload exam paper"
	msgInvalidTrack  = "Invalid tracking type"
	msgTrackFailed   = "Failed to track paper activity"
	msgListFailed    = "Failed to fetch exam papers"
)

type deleteResponse struct {
	Message string `json:"message"`
	PaperID string `json:"paperId"`
}

type trackRequest struct {
	Type string `json:"type"`
}

// ListPapers returns all papers, optionally filtered by examType and year query parameters.
//
// @Summary  List papers
// @Tags     papers
// @Produce  json
// @Param    examType  query  string  false  "exam type"
// @Param    year      query  string  false  "year"
// @Success  200  {array}   model.Paper
// @Failure  500  {object}  errorPayload
// @Router   /papers [get]
func ListPapers(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		papers, err := svc.List(c.UserContext(), c.Query("examType"), c.Query("year"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, codeInternal, msgListFailed)
		}
		return c.JSON(papers)
	}
}

// PapersByExamYear lists the papers of one exam type and year.
//
// @Summary  List papers by exam and year
// @Tags     papers
// @Produce  json
// @Param    examType  path  string  true  "exam type"
// @Param    year      path  string  true  "year"
// @Success  200  {array}   model.Paper
// @Failure  500  {object}  errorPayload
// @Router   /papers/{examType}/{year} [get]
func PapersByExamYear(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		papers, err := svc.List(c.UserContext(), c.Params("examType"), c.Params("year"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, codeInternal, msgListFailed)
		}
		return c.JSON(papers)
	}
}

// GetPaper returns one paper by id.
//
// @Summary  Get paper
// @Tags     papers
// @Produce  json
// @Param    id  path  string  true  "paper id"
// @Success  200  {object}  model.Paper
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /papers/get/{id} [get]
func GetPaper(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, codeIDRequired, msgIDRequired)
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusBadRequest, codeIDRequired, msgIDRequired)
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, codeNotFound, msgNotFound)
			default:
				return writeError(c, fiber.StatusInternalServerError, codeInternal, msgFetchFailed)
			}
		}
		return c.JSON(p)
	}
}

// DeletePaper removes a paper's files and record.
//
// @Summary  Delete paper
// @Tags     papers
// @Produce  json
// @Param    id  path  string  true  "paper id"
// @Success  200  {object}  deleteResponse
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /papers/delete/{id} [delete]
func DeletePaper(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, codeIDRequired, msgIDRequired)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			switch {
			case errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusBadRequest, codeIDRequired, msgIDRequired)
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, codeNotFound, msgNotFound)
			default:
				return writeError(c, fiber.StatusInternalServerError, codeInternal, msgDeleteFailed)
			}
		}
		return c.JSON(deleteResponse{Message: msgDeleted, PaperID: id})
	}
}

// UploadPaper accepts multipart/form-data with examType, year, paperType,
// paperFile and an optional solutionFile.
//
// @Summary  Upload paper
// @Tags     papers
// @Accept   multipart/form-data
// @Produce  json
// @Param    examType      formData  string  true   "exam type"
// @Param    year          formData  string  true   "year"
// @Param    paperType     formData  string  true   "paper type"
// @Param    paperFile     formData  file    true   "paper PDF"
// @Param    solutionFile  formData  file    false  "solution PDF"
// @Success  201  {object}  model.Paper
// @Failure  400  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /papers/upload [post]
func UploadPaper(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.UploadInput{
			ExamType:  c.FormValue("examType"),
			Year:      c.FormValue("year"),
			PaperType: c.FormValue("paperType"),
		}

		paperFH, err := c.FormFile("paperFile")
		if err != nil || in.ExamType == "" || in.Year == "" || in.PaperType == "" {
			return writeError(c, fiber.StatusBadRequest, codeMissingFields, msgMissingFields)
		}

		paper, closePaper, err := openUpload(paperFH)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, codeBadRequest, "Cannot read uploaded file")
		}
		defer closePaper()
		in.Paper = paper

		if solFH, err := c.FormFile("solutionFile"); err == nil {
			sol, closeSol, err := openUpload(solFH)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, codeBadRequest, "Cannot read uploaded file")
			}
			defer closeSol()
			in.Solution = sol
		}

		created, err := svc.Upload(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, service.ErrMissingFields) {
				return writeError(c, fiber.StatusBadRequest, codeMissingFields, msgMissingFields)
			}
			return writeError(c, fiber.StatusInternalServerError, codeInternal, msgUploadFailed)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

func openUpload(fh *multipart.FileHeader) (*service.FileInput, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &service.FileInput{Reader: f, Name: fh.Filename, ContentType: ct, Size: fh.Size}, func() { f.Close() }, nil
}

// TrackPaper records a view or download. The body is {"type": "view"|"download"}.
//
// @Summary  Track paper activity
// @Tags     papers
// @Accept   json
// @Produce  json
// @Param    id    path  string        true  "paper id"
// @Param    body  body  trackRequest  true  "activity"
// @Success  200  {object}  map[string]bool
// @Failure  400  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /papers/track/{id} [post]
func TrackPaper(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, codeIDRequired, msgIDRequired)
		}
		var req trackRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, codeInvalidType, msgInvalidTrack)
		}
		if err := svc.Track(c.UserContext(), id, req.Type); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidTrackType):
				return writeError(c, fiber.StatusBadRequest, codeInvalidType, msgInvalidTrack)
			case errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusBadRequest, codeIDRequired, msgIDRequired)
			default:
				return writeError(c, fiber.StatusInternalServerError, codeInternal, msgTrackFailed)
			}
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// ExamMetadata lists the exam types with their years and paper counts.
//
// @Summary  Exam metadata
// @Tags     exams
// @Produce  json
// @Success  200  {array}   model.ExamMetadata
// @Failure  500  {object}  errorPayload
// @Router   /exams/metadata [get]
func ExamMetadata(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meta, err := svc.Metadata(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, codeInternal, "Failed to fetch exam metadata")
		}
		return c.JSON(meta)
	}
}

// LatestPapers returns one paper per exam type from the most recent year.
//
// @Summary  Latest papers
// @Tags     exams
// @Produce  json
// @Param    limit  query  int  false  "maximum results"  default(10)
// @Success  200  {array}   model.Paper
// @Failure  400  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /exams/latest [get]
func LatestPapers(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, codeInvalidLimit, "Invalid limit")
		}
		papers, err := svc.Latest(c.UserContext(), limit)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, codeInternal, "Failed to fetch latest exam papers")
		}
		return c.JSON(papers)
	}
}

// fileLink resolves the link for the id param and ?type, writing the error response when it fails.
func fileLink(c *fiber.Ctx, svc service.PaperService, failMsg string) (*service.FileLink, error) {
	id := c.Params("id")
	if id == "" {
		return nil, writeError(c, fiber.StatusBadRequest, codeIDRequired, msgIDRequired)
	}
	kind := c.Query("type", service.FilePaper)
	link, err := svc.FileURL(c.UserContext(), id, kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFileKind):
			return nil, writeError(c, fiber.StatusBadRequest, codeInvalidType, "Invalid file type")
		case errors.Is(err, service.ErrNotFound):
			return nil, writeError(c, fiber.StatusNotFound, codeNotFound, msgNotFound)
		case errors.Is(err, service.ErrFileNotFound):
			return nil, writeError(c, fiber.StatusNotFound, codeNotFound, kind+" not found for this paper")
		default:
			return nil, writeError(c, fiber.StatusInternalServerError, codeInternal, failMsg)
		}
	}
	return link, nil
}

// ViewPDF returns a viewable URL for the paper (or ?type=solution) with its title.
//
// @Summary  View PDF
// @Tags     files
// @Produce  json
// @Param    id    path   string  true   "paper id"
// @Param    type  query  string  false  "paper or solution"
// @Success  200  {object}  service.FileLink
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /view-pdf/{id} [get]
func ViewPDF(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		link, err := fileLink(c, svc, "Failed to generate secure access URL")
		if link == nil {
			return err
		}
		return c.JSON(link)
	}
}

// DownloadPaper redirects to a time-limited download URL.
//
// @Summary  Download file
// @Tags     files
// @Param    id    path   string  true   "paper id"
// @Param    type  query  string  false  "paper or solution"
// @Success  302  {string}  string  "redirect to the file"
// @Failure  404  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /download/{id} [get]
func DownloadPaper(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		link, err := fileLink(c, svc, "Failed to generate download URL")
		if link == nil {
			return err
		}
		return c.Redirect(link.URL, fiber.StatusFound)
	}
}
