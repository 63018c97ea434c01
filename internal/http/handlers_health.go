package httpx

import (
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

// healthHandler reports liveness along with the shell's session state. The process is
// healthy whatever the session state is.
func healthHandler(svc ShellService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		resp := healthResponse{Status: "ok"}
		if svc != nil {
			resp.Session = svc.Session().State.String()
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
