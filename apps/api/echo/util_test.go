package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/portal"
	"github.com/trezcool/deptportal/core/record"
	"github.com/trezcool/deptportal/core/user"
	emailsvc "github.com/trezcool/deptportal/services/email"
	logsvc "github.com/trezcool/deptportal/services/logger"
	inmemkv "github.com/trezcool/deptportal/storage/kv/inmem"
)

var (
	fixedNow = time.Date(2024, time.October, 16, 10, 0, 0, 0, time.UTC) // a Wednesday

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errNoSession    = httpErr{Error: "no active session"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

type testApp struct {
	srv     *Server
	conf    *core.Config
	storage *inmemkv.Storage
	users   *user.Service
	portal  *portal.Portal
	mailer  *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) testApp {
	t.Helper()
	ctx := context.Background()

	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()
	st := inmemkv.New()
	mailer := emailsvc.NewConsoleServiceMock(conf, logger)

	var n int
	ids := record.WithIDFunc(func() string {
		n++
		return "gen-" + strconv.Itoa(n)
	})
	usrSvc := user.NewService(st, logger, ids)
	p := portal.New(st, conf, mailer, logger, ids)
	require.NoError(t, usrSvc.Initialize(ctx))
	require.NoError(t, p.Initialize(ctx))

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        usrSvc,
		Portal:         p,
		DisableReqLogs: true,
	})
	srv.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = srv.Close() })

	return testApp{srv: srv, conf: conf, storage: st, users: usrSvc, portal: p, mailer: mailer}
}

// login authenticates through the API and returns the issued token.
func (app testApp) login(t *testing.T, username string) string {
	t.Helper()
	body := marchallObj(t, user.LoginCredentials{Username: username, Password: username})
	req, rec := newRequest(http.MethodPost, "/v1/session/login", body)
	app.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (app testApp) run(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.srv.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
