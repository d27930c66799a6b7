package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/petface/internal/analysis"
	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/constants"
	"github.com/kozaktomas/petface/internal/features"
	"github.com/kozaktomas/petface/internal/imageproc"
)

// multipartOverhead is the slack allowed on top of the file size for form
// fields and part headers.
const multipartOverhead = 1 << 20

// AnalyzeHandler handles photo and landmark analysis endpoints.
type AnalyzeHandler struct {
	service       *analysis.Service
	validate      *validator.Validate
	maxUploadSize int64
	log           logrus.FieldLogger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(svc *analysis.Service, validate *validator.Validate, maxUploadSize int64, log logrus.FieldLogger) *AnalyzeHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = constants.MaxUploadSize
	}
	return &AnalyzeHandler{
		service:       svc,
		validate:      validate,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

// analyzeForm holds the non-file fields of an analyze upload.
type analyzeForm struct {
	PetType string `validate:"omitempty,oneof=dog cat"`
	TopN    *int   `validate:"omitempty,min=1,max=20"`
}

// LandmarksRequest is the body of the landmarks endpoint.
type LandmarksRequest struct {
	Landmarks []features.Point `json:"landmarks" validate:"required,min=1,max=1000"`
	PetType   string           `json:"pet_type" validate:"omitempty,oneof=dog cat"`
	TopN      *int             `json:"top_n,omitempty" validate:"omitempty,min=1,max=20"`
}

// AnalyzeResponse is returned by every successful analysis.
type AnalyzeResponse struct {
	Success bool `json:"success"`
	*analysis.Result
}

// Analyze handles a multipart photo upload.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("file too large: maximum is %d MB", h.maxUploadSize>>20))
			return
		}
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	form, err := h.parseForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("file too large: maximum is %d MB", h.maxUploadSize>>20))
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("file too large: maximum is %d MB", h.maxUploadSize>>20))
		return
	}
	if !imageproc.IsSupported(data) {
		respondError(w, http.StatusBadRequest, "only image files are accepted: JPEG, PNG and WEBP")
		return
	}

	species, err := catalog.ParseSpecies(form.PetType)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	res, err := h.service.AnalyzeImage(r.Context(), analysis.Request{
		Image:    data,
		Filename: filepath.Base(header.Filename),
		Species:  species,
		TopN:     topN(form.TopN),
	})
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Result: res})
}

func (h *AnalyzeHandler) parseForm(r *http.Request) (analyzeForm, error) {
	form := analyzeForm{PetType: strings.ToLower(strings.TrimSpace(r.FormValue("pet_type")))}

	if s := strings.TrimSpace(r.FormValue("top_n")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return form, errors.New("top_n must be an integer")
		}
		form.TopN = &n
	}

	if err := h.validate.Struct(form); err != nil {
		return form, validationError(err)
	}
	return form, nil
}

// AnalyzeLandmarks handles a JSON landmark list, skipping the detector.
func (h *AnalyzeHandler) AnalyzeLandmarks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req LandmarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	req.PetType = strings.ToLower(strings.TrimSpace(req.PetType))
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationError(err).Error())
		return
	}

	species, err := catalog.ParseSpecies(req.PetType)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	res, err := h.service.AnalyzeLandmarks(req.Landmarks, species, topN(req.TopN))
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Result: res})
}

// topN returns the requested match count, or zero to select the default.
func topN(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// validationError turns validator output into a single client-facing message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldName(fe.Field())
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "min", "max":
			if field == "top_n" {
				msgs = append(msgs, fmt.Sprintf("top_n must be between 1 and %d", constants.MaxTopN))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s must have between 1 and %d entries", field, constants.MaxLandmarks))
			}
		case "required":
			msgs = append(msgs, field+" is required")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldName(goName string) string {
	switch goName {
	case "PetType":
		return "pet_type"
	case "TopN":
		return "top_n"
	case "Landmarks":
		return "landmarks"
	default:
		return strings.ToLower(goName)
	}
}
