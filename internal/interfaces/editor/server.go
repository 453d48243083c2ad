package editor

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler exposes getter over the message protocol, one websocket per
// client.  It answers ping and getDescriptor; other methods get an error
// response.
func Handler(getter Getter, log logging.Logger) http.Handler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	log = log.Named("editor")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", logging.Err(err))
			return
		}
		defer conn.Close()

		for {
			var req Request
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug("websocket read failed", logging.Err(err))
				}
				return
			}
			if err := conn.WriteJSON(answer(getter, req)); err != nil {
				log.Debug("websocket write failed", logging.Err(err))
				return
			}
		}
	})
}

func answer(getter Getter, req Request) Response {
	resp := Response{ID: req.ID}
	switch req.Method {
	case MethodPing:
		resp.Result = json.RawMessage(`"pong"`)
	case MethodGetDescriptor:
		if getter == nil {
			resp.Error = "editor is not attached"
			break
		}
		d, err := getter.GetDescriptor()
		if err != nil {
			resp.Error = err.Error()
			break
		}
		raw, _ := json.Marshal(d)
		resp.Result = raw
	default:
		resp.Error = "unknown method: " + req.Method
	}
	return resp
}

//Personal.AI order the ending
