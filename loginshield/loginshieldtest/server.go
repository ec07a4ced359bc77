package loginshieldtest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cryptium/loginshield-go/logger"
)

// Realm is a realm known to the fake service.
type Realm struct {
	ID   string `json:"id"`
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// User is a registered realm user.
type User struct {
	RealmID           string `json:"realmId"`
	RealmScopedUserID string `json:"realmScopedUserId"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
}

// RecordedRequest is a request received by the service.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Body    []byte
}

type cannedResponse struct {
	status  int
	body    string
	headers map[string]string
}

// Server is a fake LoginShield service backed by httptest.
type Server struct {
	*httptest.Server

	authToken  string
	secret     []byte
	tokenTTL   time.Duration
	forwardURL string
	useTLS     bool
	defaultID  string
	log        *logger.Logger

	mu       sync.Mutex
	realms   map[string]Realm
	users    map[string]map[string]User
	used     map[string]bool
	canned   map[string]cannedResponse
	requests []RecordedRequest
}

// Option configures a Server.
type Option func(*Server)

// WithAuthorizationToken requires "Authorization: Token <token>" on every
// request. Without it any authorization is accepted.
func WithAuthorizationToken(token string) Option {
	return func(s *Server) { s.authToken = token }
}

// WithRealm registers an additional realm.
func WithRealm(r Realm) Option {
	return func(s *Server) { s.realms[r.ID] = r }
}

// WithSigningSecret sets the HS256 key for login tokens.
func WithSigningSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithTokenTTL sets the lifetime of login tokens. Defaults to 5 minutes.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithForwardURL makes forward URLs start with base instead of the server URL.
func WithForwardURL(base string) Option {
	return func(s *Server) { s.forwardURL = base }
}

// WithLogger sets the logger for request logs and recovered panics.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithTLS serves over HTTPS with the httptest certificate.
func WithTLS() Option {
	return func(s *Server) { s.useTLS = true }
}

// New starts a fake service with one default realm. It is closed when the
// test ends.
func New(tb testing.TB, opts ...Option) *Server {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:    []byte(uuid.NewString()),
		tokenTTL:  5 * time.Minute,
		defaultID: uuid.NewString(),
		realms:    make(map[string]Realm),
		users:     make(map[string]map[string]User),
		used:      make(map[string]bool),
		canned:    make(map[string]cannedResponse),
	}
	s.realms[s.defaultID] = Realm{
		ID:   s.defaultID,
		URI:  "https://realm.example",
		Name: "Example Realm",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get("loginshieldtest")
	}

	if s.useTLS {
		s.Server = httptest.NewTLSServer(s.router())
	} else {
		s.Server = httptest.NewServer(s.router())
	}
	if s.forwardURL == "" {
		s.forwardURL = s.URL
	}
	tb.Cleanup(s.Close)
	return s
}

// RealmID returns the id of the default realm.
func (s *Server) RealmID() string {
	return s.defaultID
}

// User returns a registered user.
func (s *Server) User(realmID, userID string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[realmID][userID]
	return u, ok
}

// AddUser registers a user directly.
func (s *Server) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putUser(u)
}

// Respond makes method+path answer with status and body until Reset.
func (s *Server) Respond(method, path string, status int, body string) {
	s.RespondWithHeaders(method, path, status, body, nil)
}

// RespondWithHeaders is Respond with extra response headers.
func (s *Server) RespondWithHeaders(method, path string, status int, body string, headers map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[method+" "+path] = cannedResponse{status: status, body: body, headers: headers}
}

// Reset removes canned responses and recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned = make(map[string]cannedResponse)
	s.requests = nil
}

// Requests returns the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// putUser must be called with mu held.
func (s *Server) putUser(u User) {
	if s.users[u.RealmID] == nil {
		s.users[u.RealmID] = make(map[string]User)
	}
	s.users[u.RealmID][u.RealmScopedUserID] = u
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(recovery(s.log), logRequests(s.log), s.record(), s.respondCanned(), s.authorize())

	r.POST("/service/realm/user/create", s.handleCreateUser)
	r.POST("/service/realm/login/start", s.handleLoginStart)
	r.POST("/service/realm/login/verify", s.handleLoginVerify)
	r.GET("/service/realm", s.handleRealmInfo)
	return r
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Query:   c.Request.URL.RawQuery,
			Headers: c.Request.Header.Clone(),
			Body:    body,
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) respondCanned() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		resp, ok := s.canned[c.Request.Method+" "+c.Request.URL.Path]
		s.mu.Unlock()
		if !ok {
			c.Next()
			return
		}
		for k, v := range resp.headers {
			c.Header(k, v)
		}
		c.Data(resp.status, "application/json", []byte(resp.body))
		c.Abort()
	}
}

func (s *Server) authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authToken == "" || c.GetHeader("Authorization") == "Token "+s.authToken {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}
