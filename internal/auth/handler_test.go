package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hostflow/hostflow/internal/shared"
)

type memoryHosts struct {
	byEmail map[string]Host
	nextID  int64
}

func newMemoryHosts() *memoryHosts {
	return &memoryHosts{byEmail: make(map[string]Host), nextID: 1}
}

func (m *memoryHosts) FindByEmail(ctx context.Context, email string) (Host, error) {
	h, ok := m.byEmail[email]
	if !ok {
		return Host{}, pgx.ErrNoRows
	}
	return h, nil
}

func (m *memoryHosts) Create(ctx context.Context, host Host) (Host, error) {
	if _, ok := m.byEmail[host.Email]; ok {
		return Host{}, ErrEmailTaken
	}
	host.ID = m.nextID
	m.nextID++
	host.CreatedAt = time.Now()
	m.byEmail[host.Email] = host
	return host, nil
}

func testServer(t *testing.T, hosts Repository) (*httptest.Server, *shared.SessionManager) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "hostflow_session", "test-secret", time.Hour, false)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(hosts), sessions)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			if err != nil {
				http.Error(w, "session", http.StatusInternalServerError)
				return
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			rec := httptest.NewRecorder()
			next.ServeHTTP(rec, req.WithContext(ctx))
			require.NoError(t, sessions.Commit(ctx, w, req, sess))
			for k, vals := range rec.Header() {
				for _, v := range vals {
					w.Header().Add(k, v)
				}
			}
			w.WriteHeader(rec.Code)
			w.Write(rec.Body.Bytes())
		})
	})
	r.Route("/auth", h.MountRoutes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sessions
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func authedClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func TestRegisterLoginAndSessionFlow(t *testing.T) {
	srv, sessions := testServer(t, newMemoryHosts())
	client := authedClient(t)

	resp := postJSON(t, client, srv.URL+"/auth/register", map[string]string{
		"email":    "amina@example.com",
		"name":     "Amina",
		"password": "correct horse",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessions.CookieName() {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "register must set the session cookie")
	require.True(t, sessionCookie.HttpOnly)

	var host Host
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&host))
	require.Equal(t, "amina@example.com", host.Email)
	require.Empty(t, host.PasswordHash)

	me, err := client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)

	logout := postJSON(t, client, srv.URL+"/auth/logout", nil)
	logout.Body.Close()
	require.Equal(t, http.StatusNoContent, logout.StatusCode)

	after, err := client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	after.Body.Close()
	require.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestLoginReportsSessionExpiry(t *testing.T) {
	hosts := newMemoryHosts()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = hosts.Create(context.Background(), Host{Email: "amina@example.com", Name: "Amina", PasswordHash: string(hash)})
	require.NoError(t, err)

	srv, sessions := testServer(t, hosts)
	client := authedClient(t)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "amina@example.com",
		"password": "correct horse",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Host      Host      `json:"host"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "amina@example.com", body.Host.Email)
	// The advertised expiry tracks the configured session TTL.
	require.WithinDuration(t, time.Now().Add(sessions.TTL()), body.ExpiresAt, time.Minute)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hosts := newMemoryHosts()
	hash, err := bcrypt.GenerateFromPassword([]byte("right password"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = hosts.Create(context.Background(), Host{Email: "amina@example.com", Name: "Amina", PasswordHash: string(hash)})
	require.NoError(t, err)

	srv, _ := testServer(t, hosts)
	client := authedClient(t)

	resp := postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "amina@example.com",
		"password": "wrong password",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// An unknown email yields the same status as a wrong password.
	resp = postJSON(t, client, srv.URL+"/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	srv, _ := testServer(t, newMemoryHosts())
	client := authedClient(t)

	form := map[string]string{"email": "amina@example.com", "name": "Amina", "password": "correct horse"}
	resp := postJSON(t, client, srv.URL+"/auth/register", form)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, client, srv.URL+"/auth/register", form)
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
