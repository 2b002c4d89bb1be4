package conn

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/tablodb/tablo/internal/engine"
	"github.com/tablodb/tablo/pkg"
)

type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	// don't manually set this. it comes from the client
	ReqId int `json:"__tablo_client_req_id__"`
}

func NewErrorResponse(status int, err string) Response {
	return Response{Message: err, Status: status}
}

func NewResponse(status int, message string, data any) Response {
	return Response{Data: data, Message: message, Status: status}
}

// errStatus maps the engine's typed failures onto response codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrDuplicateRecord):
		return http.StatusConflict
	case errors.Is(err, engine.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrUnindexedField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type CreateRequest struct {
	Table string        `json:"table"`
	Data  engine.Record `json:"data"`
}

func CreateReqHandler(e *engine.Engine, raw []byte) Response {
	var req CreateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	if req.Table == "" {
		return NewErrorResponse(http.StatusBadRequest, "table is required")
	}

	row, err := e.Create(req.Table, req.Data)
	if err != nil {
		return NewErrorResponse(errStatus(err), err.Error())
	}
	return NewResponse(
		http.StatusCreated,
		fmt.Sprintf("Created new record in table %s", req.Table),
		row,
	)
}

type ReadRequest struct {
	Table string `json:"table"`
	Id    string `json:"id"`
}

func ReadReqHandler(e *engine.Engine, raw []byte) Response {
	var req ReadRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	row, err := e.Read(req.Table, req.Id)
	if err != nil {
		return NewErrorResponse(errStatus(err), err.Error())
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Found record %s in table %s", req.Id, req.Table), row)
}

type UpdateRequest struct {
	Table string        `json:"table"`
	Id    string        `json:"id"`
	Data  engine.Record `json:"data"`
}

func UpdateReqHandler(e *engine.Engine, raw []byte) Response {
	var req UpdateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	row, err := e.Update(req.Table, req.Id, req.Data)
	if err != nil {
		return NewErrorResponse(errStatus(err), err.Error())
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Updated record %s in table %s", req.Id, req.Table), row)
}

type DeleteRequest struct {
	Table string `json:"table"`
	Id    string `json:"id"`
}

func DeleteReqHandler(e *engine.Engine, raw []byte) Response {
	var req DeleteRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	if err := e.Delete(req.Table, req.Id); err != nil {
		return NewErrorResponse(errStatus(err), err.Error())
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Deleted record %s in table %s", req.Id, req.Table), nil)
}

type ListRequest struct {
	Table string `json:"table"`
}

func ListReqHandler(e *engine.Engine, raw []byte) Response {
	var req ListRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	if req.Table == "" {
		return NewErrorResponse(http.StatusBadRequest, "table is required")
	}

	rows := e.List(req.Table)
	return NewResponse(http.StatusOK, fmt.Sprintf("Found %d records in table %s", len(rows), req.Table), rows)
}

type FindByRequest struct {
	Table string `json:"table"`
	Field string `json:"field"`
	Value any    `json:"value"`
}

func FindByReqHandler(e *engine.Engine, raw []byte) Response {
	var req FindByRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	rows, err := e.FindBy(req.Table, req.Field, req.Value)
	if err != nil {
		return NewErrorResponse(errStatus(err), err.Error())
	}
	return NewResponse(
		http.StatusOK,
		fmt.Sprintf("Found %d records in table %s where %s matches", len(rows), req.Table, req.Field),
		rows,
	)
}

type JoinRequest struct {
	Table1 string `json:"table1"`
	Table2 string `json:"table2"`
	Key    string `json:"key"`
}

func JoinReqHandler(e *engine.Engine, raw []byte) Response {
	var req JoinRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	rows, err := e.Join(req.Table1, req.Table2, req.Key)
	if err != nil {
		return NewErrorResponse(errStatus(err), err.Error())
	}
	return NewResponse(
		http.StatusOK,
		fmt.Sprintf("Joined %s and %s on %s: %d pairs", req.Table1, req.Table2, req.Key, len(rows)),
		rows,
	)
}

type StatsResponse struct {
	Tables     map[string]int `json:"tables"`
	LastChange string         `json:"last_change"`
}

func StatsReqHandler(e *engine.Engine) Response {
	stats := StatsResponse{Tables: e.Stats()}
	pkg.RLockWrap(e, func() {
		stats.LastChange = e.LastChange.UTC().Format(time.RFC3339)
	})
	return NewResponse(http.StatusOK, "Database stats", stats)
}
