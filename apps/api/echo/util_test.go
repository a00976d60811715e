package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	echoapi "github.com/trezcool/schooladmin/apps/api/echo"
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
	logsvc "github.com/trezcool/schooladmin/services/logger"
	sqlxrepos "github.com/trezcool/schooladmin/storage/database/sqlx"
	testutil "github.com/trezcool/schooladmin/tests"
)

const testPassword = "S3cure!pass"

var (
	usrRepo user.Repository
	repos   school.Repositories

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func newConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "SchoolAdmin",
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func setup(t *testing.T) (*echoapi.Server, *core.Config) {
	// set up DB & repos
	store := testutil.NewStore(t)
	usrRepo = sqlxrepos.NewUserRepository(store)
	repos = sqlxrepos.NewRepositories(store)

	// set up server
	conf := newConfig()
	return echoapi.NewServer(echoapi.Options{
		Conf:           conf,
		Logger:         logsvc.NewNopLogger(),
		UserSvc:        user.NewService(usrRepo, testutil.NewValidator()),
		Repos:          repos,
		DisableReqLogs: true,
	}), conf
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
}

func (tt httpTest) do(app http.Handler) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
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

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createUser(t *testing.T, name, email string, role user.Role) user.User {
	return testutil.CreateUser(t, usrRepo, name, email, testPassword, role)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshall[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshall(%s) failed: %v", rec.Body.String(), err)
	}
	return v
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
