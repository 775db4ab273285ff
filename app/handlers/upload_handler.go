package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/h2non/filetype"
	"github.com/rs/zerolog"
)

const (
	maxUploadBody   = services.MaxImagesPerUpload*services.MaxImageBytes + 1<<20
	multipartMemory = 32 << 20

	MsgProductIDRequired = "productId is required"
	MsgImageIDRequired   = "imageId is required"
	MsgOnlyImages        = "Only image files are allowed"
)

type DeleteImageRequest struct {
	ImageID uint `json:"imageId"`
}

type UploadHandler struct {
	images *services.ImageService
	resp   *helpers.Responder
	log    zerolog.Logger
}

func NewUploadHandler(images *services.ImageService, resp *helpers.Responder, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{images: images, resp: resp, log: log}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return helpers.NewBadRequest("Upload is too large")
		}
		return helpers.NewBadRequest("Invalid multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	productID, err := strconv.ParseUint(r.FormValue("productId"), 10, 32)
	if err != nil || productID == 0 {
		return helpers.NewBadRequest(MsgProductIDRequired)
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) > services.MaxImagesPerUpload {
		return helpers.NewBadRequest(fmt.Sprintf("At most %d images can be uploaded at once", services.MaxImagesPerUpload))
	}

	files := make([]services.UploadedImage, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > services.MaxImageBytes {
			return helpers.NewBadRequest(fmt.Sprintf("%s exceeds the 10MB limit", fh.Filename))
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
		f.Close()
		if err != nil {
			return err
		}

		kind, _ := filetype.Match(data)
		if !filetype.IsImage(data) {
			h.log.Warn().Str("file", fh.Filename).Str("mime", kind.MIME.Value).Msg("rejected non-image upload")
			return helpers.NewBadRequest(MsgOnlyImages)
		}
		files = append(files, services.UploadedImage{Filename: fh.Filename, Data: data})
	}

	created, err := h.images.Attach(r.Context(), uint(productID), files)
	if err != nil {
		return err
	}
	h.resp.Created(w, created, fmt.Sprintf("%d image(s) uploaded", len(created)))
	return nil
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	var req DeleteImageRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	if req.ImageID == 0 {
		return helpers.NewBadRequest(MsgImageIDRequired)
	}
	if err := h.images.Detach(r.Context(), req.ImageID); err != nil {
		return err
	}
	h.resp.Message(w, "Image deleted")
	return nil
}

func (h *UploadHandler) Reorder(w http.ResponseWriter, r *http.Request) error {
	var req services.ReorderImagesRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := h.images.Reorder(r.Context(), req); err != nil {
		return err
	}
	h.resp.Message(w, "Image order updated")
	return nil
}
