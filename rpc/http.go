package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/HelixTeam/helieco/lands"
	"github.com/HelixTeam/helieco/ledger"
	"github.com/HelixTeam/helieco/note"
)

type HTTPConfig struct {
	ListenAddr string
}

// HTTPRPCServer exposes the registry to the host command layer over a
// single JSON endpoint dispatching on a "method" field.
type HTTPRPCServer struct {
	Logger *log.Entry
	Config *HTTPConfig
	Server *http.Server

	Registry *ledger.Registry
	Lands    *lands.Adapter
}

func NewHTTPRPCServer(cfg *HTTPConfig) *HTTPRPCServer {
	server := HTTPRPCServer{
		Logger: log.WithField("module", "rpc"),
		Config: cfg,
	}

	router := mux.NewRouter()
	router.HandleFunc("/", server.Handle)

	server.Server = &http.Server{
		Handler: router,
		Addr:    cfg.ListenAddr,

		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &server
}

type request struct {
	Method string `json:"method"`
	Params struct {
		UserID    string `json:"user_id"`
		AccountID string `json:"account_id"`
		Name      string `json:"name"`
		Count     int    `json:"count"`
		Slot      int    `json:"slot"`
		Force     bool   `json:"force"`
	} `json:"params"`
}

// resolveAccount prefers an explicit account id and falls back to asking
// the ownership service which land the user owns.
func (srv *HTTPRPCServer) resolveAccount(req *request) (string, error) {
	if req.Params.AccountID != "" {
		return req.Params.AccountID, nil
	}

	if req.Params.UserID == "" {
		return "", fmt.Errorf("account_id or user_id is required")
	}

	accountID, ok := srv.Lands.ResolveOwnedLand(req.Params.UserID)
	if !ok {
		return "", fmt.Errorf("could not resolve an owned land for user %s", req.Params.UserID)
	}

	return accountID, nil
}

func (srv *HTTPRPCServer) HandleCreate(req *request) (interface{}, error) {
	accountID, err := srv.resolveAccount(req)
	if err != nil {
		return nil, err
	}

	if req.Params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	srv.Registry.Rename(accountID, req.Params.Name)

	return map[string]string{"account_id": accountID, "name": req.Params.Name}, nil
}

func (srv *HTTPRPCServer) HandleInfo(req *request) (interface{}, error) {
	accountID, err := srv.resolveAccount(req)
	if err != nil {
		return nil, err
	}

	srv.Registry.SyncFrom(accountID)
	account := srv.Registry.GetOrCreate(accountID)

	return map[string]interface{}{
		"account_id":   account.ID,
		"name":         account.Name,
		"bank_balance": account.BankBalance.String(),
		"issued_count": account.IssuedCount,
	}, nil
}

func (srv *HTTPRPCServer) HandleIssue(req *request) (interface{}, error) {
	accountID, err := srv.resolveAccount(req)
	if err != nil {
		return nil, err
	}

	// Bring the local balance up to date before computing the per-note value.
	srv.Registry.SyncFrom(accountID)

	result, err := srv.Registry.Issue(accountID, req.Params.UserID, req.Params.Count)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"count":          result.Count,
		"per_note_value": result.PerNoteValue.String(),
		"dropped":        result.Dropped,
	}, nil
}

func (srv *HTTPRPCServer) HandleRedeem(req *request) (interface{}, error) {
	if req.Params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	stack := srv.Registry.World.Holding(req.Params.UserID).Stack(req.Params.Slot)
	if stack == nil {
		return nil, ledger.ErrNotANote
	}

	// Freshen the backing balance so the payout uses the current share.
	if decoded := note.Decode(stack); decoded != nil {
		srv.Registry.SyncFrom(decoded.AccountID)
	}

	result, err := srv.Registry.Redeem(stack, req.Params.UserID, req.Params.Force)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"account_id": result.AccountID,
		"value":      result.Value.String(),
	}, nil
}

func (srv *HTTPRPCServer) HandleSync(req *request) (interface{}, error) {
	accountID, err := srv.resolveAccount(req)
	if err != nil {
		return nil, err
	}

	if !srv.Registry.SyncFrom(accountID) {
		return nil, ledger.ErrExternalUnavailable
	}

	return map[string]string{"account_id": accountID}, nil
}

func (srv *HTTPRPCServer) HandleList(req *request) (interface{}, error) {
	srv.Registry.AccountsMutex.RLock()
	defer srv.Registry.AccountsMutex.RUnlock()

	out := make([]map[string]interface{}, 0, len(srv.Registry.Accounts))
	for _, account := range srv.Registry.Accounts {
		out = append(out, map[string]interface{}{
			"account_id":   account.ID,
			"name":         account.Name,
			"bank_balance": account.BankBalance.String(),
			"issued_count": account.IssuedCount,
		})
	}

	return out, nil
}

func (srv *HTTPRPCServer) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		return
	}

	bodyStr, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	var req request
	err = json.Unmarshal(bodyStr, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	var response interface{}

	switch req.Method {
	case "currency_create":
		response, err = srv.HandleCreate(&req)
	case "currency_info":
		response, err = srv.HandleInfo(&req)
	case "currency_issue":
		response, err = srv.HandleIssue(&req)
	case "currency_redeem":
		response, err = srv.HandleRedeem(&req)
	case "currency_sync":
		response, err = srv.HandleSync(&req)
	case "currency_list":
		response, err = srv.HandleList(&req)
	default:
		err = fmt.Errorf("method %s is not supported", req.Method)
	}

	if err != nil {
		errorJSON, _ := json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, err.Error()})

		w.Write(errorJSON)

		return
	}

	responseJSON, _ := json.Marshal(struct {
		Success bool        `json:"success"`
		Result  interface{} `json:"result"`
	}{true, response})

	w.Write(responseJSON)
}

func (srv *HTTPRPCServer) Start() {
	err := srv.Server.ListenAndServe()

	srv.Logger.Errorln("Error serving HTTP server:", err)
}

func (srv *HTTPRPCServer) ValidateAndStart(registry *ledger.Registry, adapter *lands.Adapter) error {
	srv.Registry = registry
	srv.Lands = adapter

	srv.Logger.Infoln("Starting HTTP RPC server on", srv.Config.ListenAddr)

	go srv.Start()

	return nil
}
