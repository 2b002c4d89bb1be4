package conn

import (
	"fmt"
	"net/http"

	"github.com/tablodb/tablo/internal/engine"
)

type RequestAction string

const (
	// record actions
	RequestActionCreate RequestAction = "create"
	RequestActionRead   RequestAction = "read"
	RequestActionUpdate RequestAction = "update"
	RequestActionDelete RequestAction = "delete"

	// query actions
	RequestActionList   RequestAction = "list"
	RequestActionFindBy RequestAction = "findBy"
	RequestActionJoin   RequestAction = "join"

	// database actions
	RequestActionStats RequestAction = "stats"
)

func (action RequestAction) IsReadOnly() bool {
	switch action {
	case RequestActionRead, RequestActionList, RequestActionFindBy,
		RequestActionJoin, RequestActionStats:
		return true
	}
	return false
}

func ActionHandler(e *engine.Engine, action RequestAction, raw []byte) Response {
	switch action {
	case RequestActionCreate:
		return CreateReqHandler(e, raw)
	case RequestActionRead:
		return ReadReqHandler(e, raw)
	case RequestActionUpdate:
		return UpdateReqHandler(e, raw)
	case RequestActionDelete:
		return DeleteReqHandler(e, raw)
	case RequestActionList:
		return ListReqHandler(e, raw)
	case RequestActionFindBy:
		return FindByReqHandler(e, raw)
	case RequestActionJoin:
		return JoinReqHandler(e, raw)
	case RequestActionStats:
		return StatsReqHandler(e)
	default:
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unknown action: %s", action))
	}
}
