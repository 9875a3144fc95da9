package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/services"
)

// SaveHandler owns the ingestion surface: upload-and-materialize plus drop.
type SaveHandler struct {
	tableService services.TableService
}

func NewSaveHandler(tableService services.TableService) *SaveHandler {
	return &SaveHandler{tableService: tableService}
}

// Ingest accepts one file under the multipart "file" field and materializes
// it as a queryable table.
func (sh *SaveHandler) Ingest(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "no file provided", err))
		return
	}
	f, err := header.Open()
	if err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "failed to open uploaded file", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "failed to read uploaded file", err))
		return
	}

	table, err := sh.tableService.Ingest(c.Request.Context(), PrincipalFrom(c), header.Filename, data)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":            "Saved to DB successfully.",
		"table_name":         table.Name,
		"original_file_name": table.OriginalFileName,
	})
}

func (sh *SaveHandler) Drop(c *gin.Context) {
	tableName := c.Param("table_name")
	if err := sh.tableService.DropByName(c.Request.Context(), PrincipalFrom(c), tableName); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Table deleted successfully from database."})
}
