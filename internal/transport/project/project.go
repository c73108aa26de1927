package project

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainproject "github.com/alanyang/folio/internal/domain/project"
	portmedia "github.com/alanyang/folio/internal/port/media"
	projectsvc "github.com/alanyang/folio/internal/service/project"
	"github.com/alanyang/folio/internal/transport/respond"
)

// ImageField is the multipart field carrying the optional project image.
const ImageField = "image"

// AllowedImageTypes are checked against the sniffed content, not the client's
// declared type.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

const (
	msgInvalidFields = "Please provide project name, description, and URL."
	msgNotFound      = "Project not found"
)

// formSlack leaves room for the text fields and multipart framing on top of
// the image limit.
const formSlack = 64 << 10

// Register mounts the project routes. maxUpload bounds the image size in bytes.
func Register(rg *gin.RouterGroup, svc *projectsvc.Service, maxUpload int64) {
	rg.POST("", createProject(svc, maxUpload))
	rg.GET("", listProjects(svc))
	rg.GET("/:id", getProject(svc))
	rg.PUT("/:id", updateProject(svc, maxUpload))
	rg.DELETE("/:id", deleteProject(svc))
}

type projectForm struct {
	ProjectName string `json:"projectName" form:"projectName"`
	Description string `json:"description" form:"description"`
	URL         string `json:"url" form:"url"`
}

func (f projectForm) fields() domainproject.Fields {
	return domainproject.Fields{Name: f.ProjectName, Description: f.Description, URL: f.URL}
}

// uploadError is a client mistake in the upload itself.
type uploadError struct{ msg string }

func (e *uploadError) Error() string { return e.msg }

func createProject(svc *projectsvc.Service, maxUpload int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, file, ok := bindProject(c, maxUpload)
		if !ok {
			return
		}

		p, err := svc.Create(c.Request.Context(), form.fields(), file)
		if err != nil {
			respond.Error(c, err, respond.Messages{Invalid: msgInvalidFields, Server: "Server Error"})
			return
		}
		respond.OK(c, http.StatusCreated, "Project uploaded successfully", gin.H{"project": p})
	}
}

func listProjects(svc *projectsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := svc.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err, respond.Messages{Server: "Failed to fetch projects"})
			return
		}
		respond.OK(c, http.StatusOK, "Projects fetched successfully", gin.H{"projects": projects})
	}
}

func getProject(svc *projectsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		p, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			respond.Error(c, err, respond.Messages{NotFound: msgNotFound, Server: "Failed to fetch project"})
			return
		}
		respond.OK(c, http.StatusOK, "Project fetched successfully", gin.H{"project": p})
	}
}

func updateProject(svc *projectsvc.Service, maxUpload int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		form, file, ok := bindProject(c, maxUpload)
		if !ok {
			return
		}

		p, err := svc.Update(c.Request.Context(), id, form.fields(), file)
		if err != nil {
			respond.Error(c, err, respond.Messages{
				Invalid:  msgInvalidFields,
				NotFound: msgNotFound,
				Server:   "Failed to update project",
			})
			return
		}
		respond.OK(c, http.StatusOK, "Project updated successfully", gin.H{"project": p})
	}
}

func deleteProject(svc *projectsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respond.Error(c, err, respond.Messages{NotFound: msgNotFound, Server: "Failed to delete project"})
			return
		}
		respond.OK(c, http.StatusOK, "Project deleted successfully", nil)
	}
}

// parseID treats a malformed id like an unknown one.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Fail(c, http.StatusNotFound, msgNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// bindProject reads the text fields and the optional image. On failure the
// response has already been written.
func bindProject(c *gin.Context, maxUpload int64) (projectForm, *portmedia.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload+formSlack)

	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Fail(c, http.StatusBadRequest, sizeMessage(maxUpload))
			return form, nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidFields, "error": err.Error()})
		return form, nil, false
	}

	file, err := readImage(c, maxUpload)
	if err != nil {
		var uerr *uploadError
		if errors.As(err, &uerr) {
			respond.Fail(c, http.StatusBadRequest, uerr.msg)
			return form, nil, false
		}
		respond.Error(c, err, respond.Messages{Server: "Failed to read upload"})
		return form, nil, false
	}
	return form, file, true
}

// readImage returns nil when the request carries no image.
func readImage(c *gin.Context, maxUpload int64) (*portmedia.File, error) {
	if c.Request.MultipartForm == nil || c.Request.MultipartForm.File == nil {
		return nil, nil
	}
	headers := c.Request.MultipartForm.File[ImageField]
	switch len(headers) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, &uploadError{msg: "Only one image may be uploaded"}
	}

	fh := headers[0]
	if fh.Size > maxUpload {
		return nil, &uploadError{msg: sizeMessage(maxUpload)}
	}
	data, err := readAll(fh, maxUpload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &uploadError{msg: "Uploaded image is empty"}
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), AllowedImageTypes...) {
		return nil, &uploadError{msg: "Only image files are allowed (jpeg, jpg, png, webp)"}
	}
	return &portmedia.File{Name: fh.Filename, ContentType: mtype.String(), Data: data}, nil
}

func readAll(fh *multipart.FileHeader, maxUpload int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxUpload {
		return nil, &uploadError{msg: sizeMessage(maxUpload)}
	}
	return data, nil
}

func sizeMessage(maxUpload int64) string {
	if maxUpload%(1<<20) == 0 {
		return fmt.Sprintf("Image must be at most %d MB", maxUpload>>20)
	}
	return fmt.Sprintf("Image must be at most %d bytes", maxUpload)
}
