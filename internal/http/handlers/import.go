package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"opsboard/internal/http/middleware"
	"opsboard/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/import — multipart upload with "deliveries" and/or "fleet"
// CSV files. mode=replace (default) swaps the dataset, mode=append upserts.
func ImportCSV(c *gin.Context) {
	deliveries, closeDeliveries, err := formFileReader(c, "deliveries")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "cannot read deliveries file", err)
		return
	}
	if closeDeliveries != nil {
		defer closeDeliveries()
	}

	fleet, closeFleet, err := formFileReader(c, "fleet")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "cannot read fleet file", err)
		return
	}
	if closeFleet != nil {
		defer closeFleet()
	}

	if deliveries == nil && fleet == nil {
		RespondError(c, http.StatusBadRequest, "upload at least one of: deliveries, fleet", nil)
		return
	}

	mode := strings.ToLower(strings.TrimSpace(c.DefaultPostForm("mode", "replace")))
	if mode != "replace" && mode != "append" {
		RespondError(c, http.StatusBadRequest, "mode must be replace or append", nil)
		return
	}

	svc := services.ImportService{RequestID: middleware.GetRequestID(c)}
	summary, err := svc.Import(deliveries, fleet, mode == "replace")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "import finished", "summary": summary})
}

// formFileReader returns a nil reader when the field is absent; only real
// open failures surface as errors.
func formFileReader(c *gin.Context, field string) (io.Reader, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return openFormFile(fh)
}

func openFormFile(fh *multipart.FileHeader) (io.Reader, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
