package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/zaika/app/controllers"
	"github.com/shashiranjanraj/zaika/app/models"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/app/routes"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/config"
	"github.com/shashiranjanraj/zaika/pkg/auth"
	"github.com/shashiranjanraj/zaika/pkg/middleware"
	"github.com/shashiranjanraj/zaika/pkg/router"
	"github.com/shashiranjanraj/zaika/pkg/storage"
)

// api is a full HTTP stack over in-memory repositories.
type api struct {
	srv    *httptest.Server
	users  *repositories.MockUserRepository
	foods  *repositories.MockFoodRepository
	orders *repositories.MockOrderRepository
}

func newAPI(t *testing.T) *api {
	t.Helper()

	a := &api{
		users:  repositories.NewMockUserRepository(),
		foods:  repositories.NewMockFoodRepository(),
		orders: repositories.NewMockOrderRepository(),
	}

	authService := services.NewAuthService(a.users)
	r := router.New()
	routes.RegisterAPI(r, routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		Users:        controllers.NewUserController(services.NewUserService(a.users)),
		Foods:        controllers.NewFoodController(services.NewFoodService(a.foods)),
		Orders:       controllers.NewOrderController(services.NewOrderService(a.orders, a.foods)),
		Uploads:      controllers.NewUploadController(),
		Authenticate: middleware.Auth(authService.Resolve),
	})

	a.srv = httptest.NewServer(r.Handler())
	t.Cleanup(a.srv.Close)
	return a
}

// seedAccount creates a user directly in the repository and returns a
// valid token for it.
func (a *api) seedAccount(t *testing.T, email, password string, isAdmin bool) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Name: "Seeded", Email: email, Password: hash, Admin: isAdmin}
	require.NoError(t, a.users.Create(context.Background(), &user))

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email, user.Admin)
	require.NoError(t, err)
	return user, token
}

// call sends a JSON request and decodes the envelope's data field into out
// (when out is non-nil and the body has one).
func (a *api) call(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
		if len(envelope.Data) > 0 {
			require.NoError(t, json.Unmarshal(envelope.Data, out))
		}
	}
	return res.StatusCode
}

type sessionPayload struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func TestSignupAndLoginEndpoints(t *testing.T) {
	a := newAPI(t)

	var session sessionPayload
	status := a.call(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
		"address":  "1 Main St",
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, session.Token)
	assert.False(t, session.User.Admin)

	// Missing fields fail validation before any write happens.
	status = a.call(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Bob",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Same email again conflicts.
	status = a.call(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name":     "Mallory",
		"email":    "alice@example.com",
		"password": "other-pass",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	status = a.call(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	}, &session)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, session.Token)

	status = a.call(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthenticationGuards(t *testing.T) {
	a := newAPI(t)

	status := a.call(t, http.MethodGet, "/api/orders", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = a.call(t, http.MethodGet, "/api/orders", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// A token for a deleted account fails resolution.
	ghost, err := auth.GenerateToken("ffffffffffffffffffffffff", "ghost@example.com", false)
	require.NoError(t, err)
	status = a.call(t, http.MethodGet, "/api/orders", ghost, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestFoodEndpoints(t *testing.T) {
	a := newAPI(t)
	_, adminToken := a.seedAccount(t, "root@example.com", "admin-pass", true)
	_, userToken := a.seedAccount(t, "alice@example.com", "s3cret-pass", false)

	input := map[string]interface{}{
		"name":    "Margherita Pizza",
		"price":   9.5,
		"tags":    []string{"pizza", "vegetarian"},
		"origins": []string{"Italy"},
	}

	status := a.call(t, http.MethodPost, "/api/foods", userToken, input, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var created models.Food
	status = a.call(t, http.MethodPost, "/api/foods", adminToken, input, &created)
	require.Equal(t, http.StatusCreated, status)
	require.False(t, created.ID.IsZero())

	// Catalog reads are public.
	var list []models.Food
	status = a.call(t, http.MethodGet, "/api/foods", "", nil, &list)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Margherita Pizza", list[0].Name)

	var one models.Food
	status = a.call(t, http.MethodGet, "/api/foods/"+created.ID.Hex(), "", nil, &one)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, one.ID)

	var tags []models.TagCount
	status = a.call(t, http.MethodGet, "/api/foods/tags", "", nil, &tags)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, tags, 2)

	input["price"] = -2.0
	status = a.call(t, http.MethodPut, "/api/foods/"+created.ID.Hex(), adminToken, input, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = a.call(t, http.MethodDelete, "/api/foods/"+created.ID.Hex(), adminToken, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status = a.call(t, http.MethodGet, "/api/foods/"+created.ID.Hex(), "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOrderEndpoints(t *testing.T) {
	a := newAPI(t)
	_, adminToken := a.seedAccount(t, "root@example.com", "admin-pass", true)
	alice, aliceToken := a.seedAccount(t, "alice@example.com", "s3cret-pass", false)
	_, bobToken := a.seedAccount(t, "bob@example.com", "s3cret-pass", false)

	var pizza models.Food
	status := a.call(t, http.MethodPost, "/api/foods", adminToken, map[string]interface{}{
		"name": "Margherita Pizza", "price": 9.5, "tags": []string{"pizza"},
	}, &pizza)
	require.Equal(t, http.StatusCreated, status)

	// Empty item list never reaches the repository.
	status = a.call(t, http.MethodPost, "/api/orders/create", aliceToken, map[string]interface{}{
		"items": []interface{}{},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	var order models.Order
	status = a.call(t, http.MethodPost, "/api/orders/create", aliceToken, map[string]interface{}{
		"items": []map[string]interface{}{{"food_id": pizza.ID.Hex(), "quantity": 2}},
	}, &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.StatusNew, order.Status)
	assert.Equal(t, 19.0, order.Total)
	assert.Equal(t, alice.ID, order.UserID)

	// Payment targets the caller's open order.
	var payResult map[string]string
	status = a.call(t, http.MethodPut, "/api/orders/pay", aliceToken, map[string]string{
		"payment_id": "tok_123",
	}, &payResult)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, order.ID.Hex(), payResult["order_id"])

	status = a.call(t, http.MethodPut, "/api/orders/pay", aliceToken, map[string]string{
		"payment_id": "tok_456",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Tracking is owner-or-admin.
	var tracked models.Order
	status = a.call(t, http.MethodGet, "/api/orders/track/"+order.ID.Hex(), aliceToken, nil, &tracked)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.StatusPaid, tracked.Status)
	assert.Equal(t, "tok_123", tracked.PaymentID)

	status = a.call(t, http.MethodGet, "/api/orders/track/"+order.ID.Hex(), bobToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = a.call(t, http.MethodGet, "/api/orders/track/"+order.ID.Hex(), adminToken, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	// Listings are scoped to the caller.
	var mine []models.Order
	status = a.call(t, http.MethodGet, "/api/orders", aliceToken, nil, &mine)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, mine, 1)

	var bobs []models.Order
	status = a.call(t, http.MethodGet, "/api/orders", bobToken, nil, &bobs)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, bobs)

	var paid []models.Order
	status = a.call(t, http.MethodGet, "/api/orders/PAID", aliceToken, nil, &paid)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, paid, 1)

	status = a.call(t, http.MethodGet, "/api/orders/SHIPPED", aliceToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var statuses []models.OrderStatus
	status = a.call(t, http.MethodGet, "/api/orders/allstatus", aliceToken, nil, &statuses)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.AllStatuses(), statuses)
}

func TestOrderStatusEndpoint(t *testing.T) {
	a := newAPI(t)
	_, adminToken := a.seedAccount(t, "root@example.com", "admin-pass", true)
	_, aliceToken := a.seedAccount(t, "alice@example.com", "s3cret-pass", false)

	var pizza models.Food
	status := a.call(t, http.MethodPost, "/api/foods", adminToken, map[string]interface{}{
		"name": "Margherita Pizza", "price": 9.5,
	}, &pizza)
	require.Equal(t, http.StatusCreated, status)

	var order models.Order
	status = a.call(t, http.MethodPost, "/api/orders/create", aliceToken, map[string]interface{}{
		"items": []map[string]interface{}{{"food_id": pizza.ID.Hex(), "quantity": 1}},
	}, &order)
	require.Equal(t, http.StatusCreated, status)

	path := "/api/orders/" + order.ID.Hex() + "/status"

	// Only administrators may force transitions.
	status = a.call(t, http.MethodPut, path, aliceToken, map[string]bool{"is_paid": true}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// At least one signal is required.
	status = a.call(t, http.MethodPut, path, adminToken, map[string]bool{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Expiry wins over payment.
	var updated models.Order
	status = a.call(t, http.MethodPut, path, adminToken, map[string]bool{
		"is_paid": true, "is_expired": true,
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.StatusFailed, updated.Status)
}

func TestBlockedAccountLosesAccess(t *testing.T) {
	a := newAPI(t)
	_, adminToken := a.seedAccount(t, "root@example.com", "admin-pass", true)
	alice, aliceToken := a.seedAccount(t, "alice@example.com", "s3cret-pass", false)

	status := a.call(t, http.MethodGet, "/api/orders", aliceToken, nil, nil)
	require.Equal(t, http.StatusOK, status)

	// Blocking by a non-admin is rejected.
	status = a.call(t, http.MethodPut, "/api/users/"+alice.ID.Hex()+"/block", aliceToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var blocked models.User
	status = a.call(t, http.MethodPut, "/api/users/"+alice.ID.Hex()+"/block", adminToken, nil, &blocked)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, blocked.Blocked)

	// The existing token still parses, but resolution now reports blocked.
	status = a.call(t, http.MethodGet, "/api/orders", aliceToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestProfileEndpoints(t *testing.T) {
	a := newAPI(t)
	_, token := a.seedAccount(t, "alice@example.com", "old-pass", false)

	var me models.User
	status := a.call(t, http.MethodGet, "/api/users/me", token, nil, &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice@example.com", me.Email)

	status = a.call(t, http.MethodPut, "/api/users/me", token, map[string]string{
		"name": "Alice Cooper", "address": "2 Side St",
	}, &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice Cooper", me.Name)

	status = a.call(t, http.MethodPut, "/api/users/password", token, map[string]string{
		"old_password": "wrong", "new_password": "new-pass-1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = a.call(t, http.MethodPut, "/api/users/password", token, map[string]string{
		"old_password": "old-pass", "new_password": "new-pass-1",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUploadEndpoint(t *testing.T) {
	config.Set("STORAGE_LOCAL_ROOT", t.TempDir())
	storage.Connect()

	a := newAPI(t)
	_, token := a.seedAccount(t, "root@example.com", "admin-pass", true)

	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

	status, body := a.upload(t, token, "plate.png", pngHeader)
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, body["image_url"], "/images/")

	// Non-image payloads are rejected by content sniffing.
	status, _ = a.upload(t, token, "notes.txt", []byte("just some text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, status)
}

func (a *api) upload(t *testing.T, token, filename string, content []byte) (int, map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope), fmt.Sprintf("body: %s", raw))
	}
	return res.StatusCode, envelope.Data
}
