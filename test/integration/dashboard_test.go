package integration

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"user-dashboard/internal/adapter/directory"
	"user-dashboard/internal/adapter/gin/handler"
	"user-dashboard/internal/adapter/gin/router"
	"user-dashboard/internal/adapter/session"
	"user-dashboard/internal/adapter/web"
	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/usecase/dashboard"
)

// adminID is the only identity the fake backend lets mutate users
const adminID = "1"

// fakeBackend is an in-memory users backend speaking the REST contract
type fakeBackend struct {
	mu     sync.Mutex
	nextID int
	users  []domain.User
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID: 3,
		users: []domain.User{
			{ID: "1", Name: "Alice", Roles: []string{"ADMIN"}, Groups: []string{"GROUP_1"}},
			{ID: "2", Name: "Bob", Roles: []string{"PERSONAL"}, Groups: []string{"GROUP_2"}},
		},
	}
}

func (b *fakeBackend) authorize(c *gin.Context) bool {
	if c.GetHeader("Authorization") != adminID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return false
	}
	return true
}

func (b *fakeBackend) index(id string) int {
	for i, u := range b.users {
		if u.ID.String() == id {
			return i
		}
	}
	return -1
}

func (b *fakeBackend) routes() *gin.Engine {
	r := gin.New()

	r.GET("/users", func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing authorization"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, b.users)
	})

	r.GET("/users/managed/:managerId", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		managed := []domain.User{}
		for _, u := range b.users {
			for _, g := range u.Groups {
				if g == "GROUP_2" {
					managed = append(managed, u)
				}
			}
		}
		c.JSON(http.StatusOK, managed)
	})

	r.POST("/users", func(c *gin.Context) {
		if !b.authorize(c) {
			return
		}
		var f domain.Fields
		if err := c.ShouldBindJSON(&f); err != nil || f.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		u := domain.User{ID: domain.ID(strconv.Itoa(b.nextID)), Name: f.Name, Roles: f.Roles, Groups: f.Groups}
		b.nextID++
		b.users = append(b.users, u)
		c.JSON(http.StatusCreated, u)
	})

	r.PATCH("/users/:id", func(c *gin.Context) {
		if !b.authorize(c) {
			return
		}
		var p domain.Patch
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.index(c.Param("id"))
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if p.Name != nil {
			b.users[i].Name = *p.Name
		}
		if p.Roles != nil {
			b.users[i].Roles = *p.Roles
		}
		if p.Groups != nil {
			b.users[i].Groups = *p.Groups
		}
		c.JSON(http.StatusOK, b.users[i])
	})

	r.DELETE("/users/:id", func(c *gin.Context) {
		if !b.authorize(c) {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.index(c.Param("id"))
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		b.users = append(b.users[:i], b.users[i+1:]...)
		c.Status(http.StatusNoContent)
	})

	return r
}

// DashboardIntegrationTestSuite drives the dashboard over HTTP against the fake backend
type DashboardIntegrationTestSuite struct {
	suite.Suite
	backend   *fakeBackend
	backendTS *httptest.Server
	dashTS    *httptest.Server
	registry  *session.Registry
	client    *http.Client
}

func (s *DashboardIntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(s.T())

	s.backend = newFakeBackend()
	s.backendTS = httptest.NewServer(s.backend.routes())

	dir := directory.New(directory.Config{BaseURL: s.backendTS.URL, Timeout: 5 * time.Second}, log)
	s.registry = session.NewRegistry(func() *dashboard.View {
		return dashboard.NewView(dir, "5", log)
	}, time.Hour, log)

	store := router.NewSessionStore(router.SessionConfig{Secret: "integration-secret-0123456789", MaxAge: 3600})
	s.dashTS = httptest.NewServer(router.SetupRouter(handler.NewDashboardHandler(s.registry, log), nil, store, "user-dashboard", log))

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func (s *DashboardIntegrationTestSuite) TearDownTest() {
	s.dashTS.Close()
	s.registry.Close()
	s.backendTS.Close()
}

func (s *DashboardIntegrationTestSuite) get(path string) string {
	resp, err := s.client.Get(s.dashTS.URL + path)
	s.Require().NoError(err)
	return s.body(resp)
}

// post submits a form and follows the redirect back to the dashboard
func (s *DashboardIntegrationTestSuite) post(path string, form url.Values) string {
	resp, err := s.client.PostForm(s.dashTS.URL+path, form)
	s.Require().NoError(err)
	return s.body(resp)
}

func (s *DashboardIntegrationTestSuite) body(resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return string(b)
}

func (s *DashboardIntegrationTestSuite) TestRootLandsOnDefaultIdentity() {
	page := s.get("/")

	s.Contains(page, "Dynamic Auth ID: ")
	s.Contains(page, "<code>1</code>")
	s.Contains(page, "Alice")
	s.Contains(page, "Bob (ID: 2, Groups: GROUP_2)")
}

func (s *DashboardIntegrationTestSuite) TestCreateAsAdmin() {
	s.get("/dashboard/1")

	page := s.post("/dashboard/1/users", url.Values{
		"name":   {"Carol"},
		"roles":  {"PERSONAL, AUDITOR"},
		"groups": {"GROUP_1"},
	})

	s.Contains(page, "Success: Created user Carol (ID: 3)")
	s.Contains(page, "<td>Carol</td>")
	s.Contains(page, "<td>PERSONAL, AUDITOR</td>")
	s.Len(s.backend.users, 3)
}

func (s *DashboardIntegrationTestSuite) TestCreateForbidden() {
	s.get("/dashboard/6")

	page := s.post("/dashboard/6/users", url.Values{
		"name":   {"Mallory"},
		"roles":  {"PERSONAL"},
		"groups": {"GROUP_1"},
	})

	s.Contains(page, "Error (Auth ID 6): forbidden")
	s.NotContains(page, "<td>Mallory</td>")
	s.Len(s.backend.users, 2)
}

func (s *DashboardIntegrationTestSuite) TestCreateRejectedLocally() {
	s.get("/dashboard/1")

	page := s.post("/dashboard/1/users", url.Values{"name": {""}, "roles": {"PERSONAL"}, "groups": {"GROUP_1"}})

	s.Contains(page, "name is required")
	s.Len(s.backend.users, 2)
}

func (s *DashboardIntegrationTestSuite) TestEditFlow() {
	s.get("/dashboard/1")

	page := s.post("/dashboard/1/users/2/edit", nil)
	s.Contains(page, "Edit User ID: 2 (Auth ID: 1)")
	s.NotContains(page, "User List (GET /users)")

	page = s.post("/dashboard/1/users/2", url.Values{
		"name":   {"Robert"},
		"roles":  {"PERSONAL"},
		"groups": {"GROUP_2"},
	})

	s.Contains(page, "Success: Updated user Robert")
	s.Contains(page, "<td>Robert</td>")
	s.NotContains(page, "Edit User ID: 2")
}

func (s *DashboardIntegrationTestSuite) TestDeleteNeedsConfirmation() {
	s.get("/dashboard/1")

	page := s.post("/dashboard/1/users/2/delete", nil)
	s.Contains(page, "Are you sure you want to delete user ID 2?")
	s.Len(s.backend.users, 2)

	page = s.post("/dashboard/1/users/2/delete", url.Values{"confirm": {"yes"}})
	s.NotContains(page, "<td>Bob</td>")
	s.Len(s.backend.users, 1)
}

func (s *DashboardIntegrationTestSuite) TestDeleteForbidden() {
	s.get("/dashboard/6")

	page := s.post("/dashboard/6/users/2/delete", url.Values{"confirm": {"yes"}})

	s.Contains(page, `role="alert"`)
	s.Contains(page, "forbidden")
	s.Contains(page, "<td>Bob</td>")

	// Flashed alerts are shown once
	s.False(strings.Contains(s.get("/dashboard/6"), `<div class="alert" role="alert">forbidden</div>`))
}

func (s *DashboardIntegrationTestSuite) TestBackendDownShowsError() {
	s.backendTS.Close()

	page := s.get("/dashboard/1")

	s.Contains(page, `role="alert"`)
	s.Contains(page, "list users")
	s.Contains(page, web.EmptyManagedMessage)
}

func TestDashboardIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardIntegrationTestSuite))
}
