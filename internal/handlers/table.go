package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/services"
)

type TableHandler struct {
	tableService services.TableService
}

func NewTableHandler(tableService services.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

func tableIDFrom(c *gin.Context) (uuid.UUID, error) {
	tableID, err := uuid.Parse(c.Query("table_id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid table id")
	}
	return tableID, nil
}

func (th *TableHandler) ListAll(c *gin.Context) {
	skip, limit := pagination(c, 100)
	tables, err := th.tableService.ListAll(c.Request.Context(), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, tables)
}

func (th *TableHandler) ListOwned(c *gin.Context) {
	skip, limit := pagination(c, 100)
	tables, err := th.tableService.ListOwned(c.Request.Context(), PrincipalFrom(c), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, tables)
}

func (th *TableHandler) ListShared(c *gin.Context) {
	skip, limit := pagination(c, 100)
	tables, err := th.tableService.ListShared(c.Request.Context(), PrincipalFrom(c), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, tables)
}

type tableCreateRequest struct {
	TableName        string         `json:"table_name" binding:"required"`
	DataType         string         `json:"data_type"`
	Units            datatypes.JSON `json:"units"`
	OriginalFileName string         `json:"original_file_name"`
	AddedBy          string         `json:"added_by"`
	NumOfRows        int64          `json:"num_of_rows"`
	Instructions     datatypes.JSON `json:"instructions"`
	AdditionalInfo   datatypes.JSON `json:"additional_information"`
}

func (th *TableHandler) Create(c *gin.Context) {
	var req tableCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid table payload", err))
		return
	}
	table, err := th.tableService.Create(c.Request.Context(), PrincipalFrom(c), services.TableCreate{
		TableName:        req.TableName,
		DataType:         req.DataType,
		Units:            req.Units,
		OriginalFileName: req.OriginalFileName,
		AddedBy:          req.AddedBy,
		NumOfRows:        req.NumOfRows,
		Instructions:     req.Instructions,
		AdditionalInfo:   req.AdditionalInfo,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, table)
}

type tableUpdateRequest struct {
	DataType       *string        `json:"data_type"`
	Units          datatypes.JSON `json:"units"`
	Instructions   datatypes.JSON `json:"instructions"`
	AdditionalInfo datatypes.JSON `json:"additional_information"`
}

func (th *TableHandler) Update(c *gin.Context) {
	tableID, err := tableIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req tableUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid table payload", err))
		return
	}
	table, err := th.tableService.Update(c.Request.Context(), PrincipalFrom(c), tableID, services.TableUpdate{
		DataType:       req.DataType,
		Units:          req.Units,
		Instructions:   req.Instructions,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, table)
}

func (th *TableHandler) Delete(c *gin.Context) {
	tableID, err := tableIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	table, err := th.tableService.Delete(c.Request.Context(), PrincipalFrom(c), tableID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, table)
}

func (th *TableHandler) Share(c *gin.Context) {
	tableID, err := tableIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid share payload", err))
		return
	}
	if err := th.tableService.Share(c.Request.Context(), PrincipalFrom(c), tableID, req.UserEmail); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Table shared with user successfully."})
}

func (th *TableHandler) Unshare(c *gin.Context) {
	tableID, err := tableIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req unshareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid stop-share payload", err))
		return
	}
	if err := th.tableService.Unshare(c.Request.Context(), PrincipalFrom(c), tableID, req.UserID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Table sharing stopped with user successfully."})
}

func (th *TableHandler) SharedUsers(c *gin.Context) {
	tableID, err := tableIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	skip, limit := pagination(c, 100)
	users, err := th.tableService.SharedUsers(c.Request.Context(), PrincipalFrom(c), tableID, skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, users)
}
