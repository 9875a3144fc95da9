package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/datahub-backend/internal/services"
)

type QueryHandler struct {
	tableService services.TableService
}

func NewQueryHandler(tableService services.TableService) *QueryHandler {
	return &QueryHandler{tableService: tableService}
}

func (qh *QueryHandler) AllTableNames(c *gin.Context) {
	skip, limit := pagination(c, 100)
	tables, err := qh.tableService.ListAll(c.Request.Context(), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	RespondOK(c, gin.H{"table_names": names})
}

func (qh *QueryHandler) OwnedTableNames(c *gin.Context) {
	skip, limit := pagination(c, 100)
	tables, err := qh.tableService.ListOwned(c.Request.Context(), PrincipalFrom(c), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	RespondOK(c, gin.H{"table_names": names})
}

func (qh *QueryHandler) SharedTableNames(c *gin.Context) {
	skip, limit := pagination(c, 100)
	tables, err := qh.tableService.ListShared(c.Request.Context(), PrincipalFrom(c), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	RespondOK(c, gin.H{"table_names": names})
}

// Query reads rows from a materialized table. Repeated attr_names query
// parameters narrow the projection; none means every column.
func (qh *QueryHandler) Query(c *gin.Context) {
	skip, limit := pagination(c, 10)
	attrNames := c.QueryArray("attr_names")
	rows, err := qh.tableService.Query(c.Request.Context(), PrincipalFrom(c), c.Param("table_name"), attrNames, skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, rows)
}

func (qh *QueryHandler) Count(c *gin.Context) {
	count, err := qh.tableService.Count(c.Request.Context(), PrincipalFrom(c), c.Param("table_name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"total_num_of_records": count})
}

func (qh *QueryHandler) ColumnNames(c *gin.Context) {
	names, err := qh.tableService.ColumnNames(c.Request.Context(), PrincipalFrom(c), c.Param("table_name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"column_names": names})
}
